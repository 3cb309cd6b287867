package orders

import (
	"slices"
	"time"

	"github.com/matheusmosca/commerce-api/internal/memstore"
)

// OrderRepository define as operações de armazenamento de pedidos
type OrderRepository interface {
	FindAll() []Order
	FindByID(id int64) (Order, bool)
	Filter(keep func(Order) bool) []Order
	Insert(build func(id int64) Order) Order
	Update(id int64, mutate func(*Order) error) (Order, bool, error)
}

// MemoryOrderRepository implementa OrderRepository em memória.
// Items é clonado na saída para que chamadores não alterem o store.
type MemoryOrderRepository struct {
	store *memstore.Store[Order]
}

// NewOrderRepository cria o repositório com o pedido entregue de exemplo
func NewOrderRepository() *MemoryOrderRepository {
	store := memstore.New[Order]()
	seed := NewOrder(1, 1, []OrderItem{
		{ProductID: 1, Quantity: 1, Price: 1299.99},
		{ProductID: 2, Quantity: 2, Price: 29.99},
	}, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	seed.Status = StatusDelivered
	seed.UpdatedAt = time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	store.Seed(1, seed)
	return &MemoryOrderRepository{store: store}
}

func (r *MemoryOrderRepository) FindAll() []Order {
	return cloneAll(r.store.All())
}

func (r *MemoryOrderRepository) FindByID(id int64) (Order, bool) {
	o, ok := r.store.Get(id)
	return clone(o), ok
}

func (r *MemoryOrderRepository) Filter(keep func(Order) bool) []Order {
	return cloneAll(r.store.Filter(keep))
}

func (r *MemoryOrderRepository) Insert(build func(id int64) Order) Order {
	return clone(r.store.Insert(build))
}

func (r *MemoryOrderRepository) Update(id int64, mutate func(*Order) error) (Order, bool, error) {
	o, ok, err := r.store.Update(id, mutate)
	return clone(o), ok, err
}

func clone(o Order) Order {
	o.Items = slices.Clone(o.Items)
	return o
}

func cloneAll(orders []Order) []Order {
	for i := range orders {
		orders[i] = clone(orders[i])
	}
	return orders
}
