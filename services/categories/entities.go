// Package categories mantém a árvore de categorias do catálogo.
package categories

import (
	"regexp"
	"strings"
	"time"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Category representa uma categoria; ParentCategoryID nil indica raiz
type Category struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Slug             string    `json:"slug"`
	ParentCategoryID *int64    `json:"parentCategoryId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CreateCategoryRequest é o corpo de POST /api/categories
type CreateCategoryRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	ParentCategoryID *int64 `json:"parentCategoryId"`
}

// UpdateCategoryRequest é o corpo de PATCH /api/categories/:id
type UpdateCategoryRequest struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	ParentCategoryID *int64  `json:"parentCategoryId"`
}

// Slugify deixa o nome em minúsculas e troca cada sequência de espaços por "-"
func Slugify(name string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(name), "-")
}

// NewCategory cria uma nova instância de Category
func NewCategory(id int64, req CreateCategoryRequest, now time.Time) Category {
	return Category{
		ID:               id,
		Name:             req.Name,
		Description:      req.Description,
		Slug:             Slugify(req.Name),
		ParentCategoryID: req.ParentCategoryID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
