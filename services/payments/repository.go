package payments

import (
	"github.com/matheusmosca/commerce-api/internal/memstore"
)

// PaymentRepository define as operações de armazenamento de pagamentos
type PaymentRepository interface {
	FindAll() []Payment
	FindByID(id int64) (Payment, bool)
	FindByOrderID(orderID int64) (Payment, bool)
	Filter(keep func(Payment) bool) []Payment
	Insert(build func(id int64) Payment) Payment
	Update(id int64, mutate func(*Payment) error) (Payment, bool, error)
}

// MemoryPaymentRepository implementa PaymentRepository em memória
type MemoryPaymentRepository struct {
	store *memstore.Store[Payment]
}

// NewPaymentRepository cria um repositório vazio
func NewPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{store: memstore.New[Payment]()}
}

func (r *MemoryPaymentRepository) FindAll() []Payment {
	return r.store.All()
}

func (r *MemoryPaymentRepository) FindByID(id int64) (Payment, bool) {
	return r.store.Get(id)
}

// FindByOrderID devolve o primeiro pagamento registrado para o pedido
func (r *MemoryPaymentRepository) FindByOrderID(orderID int64) (Payment, bool) {
	return r.store.Find(func(p Payment) bool { return p.OrderID == orderID })
}

func (r *MemoryPaymentRepository) Filter(keep func(Payment) bool) []Payment {
	return r.store.Filter(keep)
}

func (r *MemoryPaymentRepository) Insert(build func(id int64) Payment) Payment {
	return r.store.Insert(build)
}

func (r *MemoryPaymentRepository) Update(id int64, mutate func(*Payment) error) (Payment, bool, error) {
	return r.store.Update(id, mutate)
}
