package categories

import (
	"time"

	"github.com/matheusmosca/commerce-api/internal/memstore"
)

// CategoryRepository define as operações de armazenamento de categorias
type CategoryRepository interface {
	FindAll() []Category
	FindByID(id int64) (Category, bool)
	FindBySlug(slug string) (Category, bool)
	FindByParent(parentID int64) []Category
	Insert(build func(id int64) Category) Category
	Update(id int64, mutate func(*Category) error) (Category, bool, error)
	Delete(id int64) bool
}

// MemoryCategoryRepository implementa CategoryRepository em memória
type MemoryCategoryRepository struct {
	store *memstore.Store[Category]
}

// NewCategoryRepository cria o repositório com Electronics e Accessories
func NewCategoryRepository(now time.Time) *MemoryCategoryRepository {
	store := memstore.New[Category]()
	root := int64(1)
	store.Seed(1, NewCategory(1, CreateCategoryRequest{
		Name:        "Electronics",
		Description: "Electronic devices and gadgets",
	}, now))
	store.Seed(2, NewCategory(2, CreateCategoryRequest{
		Name:             "Accessories",
		Description:      "Computer accessories",
		ParentCategoryID: &root,
	}, now))
	return &MemoryCategoryRepository{store: store}
}

func (r *MemoryCategoryRepository) FindAll() []Category {
	return r.store.All()
}

func (r *MemoryCategoryRepository) FindByID(id int64) (Category, bool) {
	return r.store.Get(id)
}

func (r *MemoryCategoryRepository) FindBySlug(slug string) (Category, bool) {
	return r.store.Find(func(c Category) bool { return c.Slug == slug })
}

func (r *MemoryCategoryRepository) FindByParent(parentID int64) []Category {
	return r.store.Filter(func(c Category) bool {
		return c.ParentCategoryID != nil && *c.ParentCategoryID == parentID
	})
}

func (r *MemoryCategoryRepository) Insert(build func(id int64) Category) Category {
	return r.store.Insert(build)
}

func (r *MemoryCategoryRepository) Update(id int64, mutate func(*Category) error) (Category, bool, error) {
	return r.store.Update(id, mutate)
}

func (r *MemoryCategoryRepository) Delete(id int64) bool {
	return r.store.Delete(id)
}
