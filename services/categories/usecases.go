package categories

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matheusmosca/commerce-api/internal/apperr"
	"github.com/matheusmosca/commerce-api/internal/validator"
)

// Cache é o subconjunto do cache.Manager usado nas buscas por slug
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string) bool
}

// CategoryUseCase contém a lógica de negócio de categorias
type CategoryUseCase struct {
	repository CategoryRepository
	cache      Cache
	cacheTTL   time.Duration
	log        *zap.Logger
	now        func() time.Time
}

// NewCategoryUseCase cria uma nova instância de CategoryUseCase
func NewCategoryUseCase(repository CategoryRepository, cache Cache, cacheTTL time.Duration, log *zap.Logger) *CategoryUseCase {
	return &CategoryUseCase{
		repository: repository,
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        log.Named("categories"),
		now:        time.Now,
	}
}

func slugKey(slug string) string {
	return "category:slug:" + slug
}

func (uc *CategoryUseCase) List() []Category {
	return uc.repository.FindAll()
}

func (uc *CategoryUseCase) Get(id int64) (Category, error) {
	c, ok := uc.repository.FindByID(id)
	if !ok {
		return Category{}, apperr.NotFound("category", id)
	}
	return c, nil
}

// GetBySlug consulta o cache antes do repositório; só acertos são cacheados
func (uc *CategoryUseCase) GetBySlug(slug string) (Category, error) {
	if v, ok := uc.cache.Get(slugKey(slug)); ok {
		if c, ok := v.(Category); ok {
			return c, nil
		}
	}

	c, ok := uc.repository.FindBySlug(slug)
	if !ok {
		return Category{}, fmt.Errorf("category %q: %w", slug, apperr.ErrNotFound)
	}
	uc.cache.Set(slugKey(slug), c, uc.cacheTTL)
	return c, nil
}

func (uc *CategoryUseCase) Subcategories(parentID int64) []Category {
	return uc.repository.FindByParent(parentID)
}

func (uc *CategoryUseCase) Create(req CreateCategoryRequest) (Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validator.New().
		Validate("name", req.Name, validator.Required(), validator.MaxLength(100)).
		Err(); err != nil {
		return Category{}, err
	}

	now := uc.now()
	category := uc.repository.Insert(func(id int64) Category {
		return NewCategory(id, req, now)
	})

	uc.log.Info("✅ category created", zap.Int64("category_id", category.ID), zap.String("slug", category.Slug))
	return category, nil
}

// Update recalcula o slug quando o nome muda
func (uc *CategoryUseCase) Update(id int64, req UpdateCategoryRequest) (Category, error) {
	if req.Name != nil {
		*req.Name = strings.TrimSpace(*req.Name)
		if err := validator.New().
			Validate("name", *req.Name, validator.Required(), validator.MaxLength(100)).
			Err(); err != nil {
			return Category{}, err
		}
	}
	if req.ParentCategoryID != nil && *req.ParentCategoryID == id {
		return Category{}, apperr.Invalid("category %d cannot be its own parent", id)
	}

	var oldSlug string
	category, ok, err := uc.repository.Update(id, func(c *Category) error {
		oldSlug = c.Slug
		if req.Name != nil {
			c.Name = *req.Name
			c.Slug = Slugify(c.Name)
		}
		if req.Description != nil {
			c.Description = *req.Description
		}
		if req.ParentCategoryID != nil {
			c.ParentCategoryID = req.ParentCategoryID
		}
		c.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		return Category{}, fmt.Errorf("update category %d: %w", id, err)
	}
	if !ok {
		return Category{}, apperr.NotFound("category", id)
	}

	uc.cache.Delete(slugKey(oldSlug))
	uc.cache.Delete(slugKey(category.Slug))
	return category, nil
}

func (uc *CategoryUseCase) Delete(id int64) error {
	category, ok := uc.repository.FindByID(id)
	if !ok || !uc.repository.Delete(id) {
		return apperr.NotFound("category", id)
	}
	uc.cache.Delete(slugKey(category.Slug))
	uc.log.Info("🗑️ category deleted", zap.Int64("category_id", id))
	return nil
}
