// Package products mantém o catálogo de produtos.
package products

import (
	"time"
)

// Product representa um produto do catálogo
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CategoryID  int64     `json:"categoryId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateProductRequest é o corpo de POST /api/products
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	CategoryID  int64   `json:"categoryId"`
}

// UpdateProductRequest é o corpo de PATCH /api/products/:id
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	CategoryID  *int64   `json:"categoryId"`
}

// SortOrder é a ordenação por preço
type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filter combina os critérios de busca de GET /api/products; campos nil são ignorados
type Filter struct {
	CategoryID *int64
	Query      string
	MinPrice   *float64
	MaxPrice   *float64
	Sort       SortOrder
}

// NewProduct cria uma nova instância de Product
func NewProduct(id int64, req CreateProductRequest, now time.Time) Product {
	return Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
