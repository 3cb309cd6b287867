package reviews

import (
	"github.com/matheusmosca/commerce-api/internal/memstore"
)

// ReviewRepository define as operações de armazenamento de avaliações
type ReviewRepository interface {
	FindAll() []Review
	FindByID(id int64) (Review, bool)
	Filter(keep func(Review) bool) []Review
	Insert(build func(id int64) Review) Review
	Update(id int64, mutate func(*Review) error) (Review, bool, error)
	Delete(id int64) bool
}

// MemoryReviewRepository implementa ReviewRepository em memória
type MemoryReviewRepository struct {
	store *memstore.Store[Review]
}

// NewReviewRepository cria um repositório vazio
func NewReviewRepository() *MemoryReviewRepository {
	return &MemoryReviewRepository{store: memstore.New[Review]()}
}

func (r *MemoryReviewRepository) FindAll() []Review {
	return r.store.All()
}

func (r *MemoryReviewRepository) FindByID(id int64) (Review, bool) {
	return r.store.Get(id)
}

func (r *MemoryReviewRepository) Filter(keep func(Review) bool) []Review {
	return r.store.Filter(keep)
}

func (r *MemoryReviewRepository) Insert(build func(id int64) Review) Review {
	return r.store.Insert(build)
}

func (r *MemoryReviewRepository) Update(id int64, mutate func(*Review) error) (Review, bool, error) {
	return r.store.Update(id, mutate)
}

func (r *MemoryReviewRepository) Delete(id int64) bool {
	return r.store.Delete(id)
}
