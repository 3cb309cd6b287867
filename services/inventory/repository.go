package inventory

import (
	"github.com/matheusmosca/commerce-api/internal/memstore"
)

// InventoryRepository define as operações de armazenamento de estoque
type InventoryRepository interface {
	FindAll() []Inventory
	FindByProductID(productID int64) (Inventory, bool)
	FindBySKU(sku string) (Inventory, bool)
	Filter(keep func(Inventory) bool) []Inventory
	Insert(productID int64, build func(id int64) Inventory) (Inventory, bool)
	UpdateByProductID(productID int64, mutate func(*Inventory) error) (Inventory, bool, error)
	Warehouses() []Warehouse
	FindWarehouse(id int64) (Warehouse, bool)
}

// MemoryInventoryRepository implementa InventoryRepository em memória
type MemoryInventoryRepository struct {
	items      *memstore.Store[Inventory]
	warehouses *memstore.Store[Warehouse]
}

// NewInventoryRepository cria o repositório com os armazéns iniciais e sem estoque
func NewInventoryRepository() *MemoryInventoryRepository {
	warehouses := memstore.New[Warehouse]()
	warehouses.Seed(1, Warehouse{ID: 1, Name: "Main Warehouse", Location: "New York", Capacity: 10000, CurrentLoad: 3500})
	warehouses.Seed(2, Warehouse{ID: 2, Name: "West Coast", Location: "Los Angeles", Capacity: 8000, CurrentLoad: 2100})

	return &MemoryInventoryRepository{
		items:      memstore.New[Inventory](),
		warehouses: warehouses,
	}
}

func (r *MemoryInventoryRepository) FindAll() []Inventory {
	return r.items.All()
}

func (r *MemoryInventoryRepository) FindByProductID(productID int64) (Inventory, bool) {
	return r.items.Find(byProduct(productID))
}

func (r *MemoryInventoryRepository) FindBySKU(sku string) (Inventory, bool) {
	return r.items.Find(func(i Inventory) bool { return i.SKU == sku })
}

func (r *MemoryInventoryRepository) Filter(keep func(Inventory) bool) []Inventory {
	return r.items.Filter(keep)
}

// Insert grava o item construído por build, desde que o produto ainda não tenha estoque
func (r *MemoryInventoryRepository) Insert(productID int64, build func(id int64) Inventory) (Inventory, bool) {
	return r.items.InsertUnless(byProduct(productID), build)
}

// UpdateByProductID aplica mutate sob o lock do store; verificação e escrita são atômicas
func (r *MemoryInventoryRepository) UpdateByProductID(productID int64, mutate func(*Inventory) error) (Inventory, bool, error) {
	return r.items.UpdateFirst(byProduct(productID), mutate)
}

func (r *MemoryInventoryRepository) Warehouses() []Warehouse {
	return r.warehouses.All()
}

func (r *MemoryInventoryRepository) FindWarehouse(id int64) (Warehouse, bool) {
	return r.warehouses.Get(id)
}

func byProduct(productID int64) func(Inventory) bool {
	return func(i Inventory) bool { return i.ProductID == productID }
}
