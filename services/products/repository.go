package products

import (
	"time"

	"github.com/matheusmosca/commerce-api/internal/memstore"
)

// ProductRepository define as operações de armazenamento de produtos
type ProductRepository interface {
	FindAll() []Product
	FindByID(id int64) (Product, bool)
	Filter(keep func(Product) bool) []Product
	Insert(build func(id int64) Product) Product
	Update(id int64, mutate func(*Product) error) (Product, bool, error)
	Delete(id int64) bool
}

// MemoryProductRepository implementa ProductRepository em memória
type MemoryProductRepository struct {
	store *memstore.Store[Product]
}

// NewProductRepository cria o repositório com o catálogo inicial
func NewProductRepository(now time.Time) *MemoryProductRepository {
	store := memstore.New[Product]()
	seeds := []CreateProductRequest{
		{Name: "Laptop", Description: "High-performance laptop", Price: 1299.99, Stock: 15, CategoryID: 1},
		{Name: "Mouse", Description: "Wireless mouse", Price: 29.99, Stock: 100, CategoryID: 2},
		{Name: "Keyboard", Description: "Mechanical keyboard", Price: 99.99, Stock: 50, CategoryID: 2},
	}
	for i, s := range seeds {
		id := int64(i + 1)
		store.Seed(id, NewProduct(id, s, now))
	}
	return &MemoryProductRepository{store: store}
}

func (r *MemoryProductRepository) FindAll() []Product {
	return r.store.All()
}

func (r *MemoryProductRepository) FindByID(id int64) (Product, bool) {
	return r.store.Get(id)
}

func (r *MemoryProductRepository) Filter(keep func(Product) bool) []Product {
	return r.store.Filter(keep)
}

func (r *MemoryProductRepository) Insert(build func(id int64) Product) Product {
	return r.store.Insert(build)
}

func (r *MemoryProductRepository) Update(id int64, mutate func(*Product) error) (Product, bool, error) {
	return r.store.Update(id, mutate)
}

func (r *MemoryProductRepository) Delete(id int64) bool {
	return r.store.Delete(id)
}
