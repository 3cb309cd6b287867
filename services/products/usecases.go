package products

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matheusmosca/commerce-api/internal/apperr"
	"github.com/matheusmosca/commerce-api/internal/validator"
)

// ProductUseCase contém a lógica de negócio do catálogo
type ProductUseCase struct {
	repository ProductRepository
	log        *zap.Logger
	now        func() time.Time
}

// NewProductUseCase cria uma nova instância de ProductUseCase
func NewProductUseCase(repository ProductRepository, log *zap.Logger) *ProductUseCase {
	return &ProductUseCase{
		repository: repository,
		log:        log.Named("products"),
		now:        time.Now,
	}
}

// Search aplica f sobre o catálogo. A busca por nome não diferencia maiúsculas.
func (uc *ProductUseCase) Search(f Filter) []Product {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := uc.repository.Filter(func(p Product) bool {
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			return false
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			return false
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			return false
		}
		return true
	})

	switch f.Sort {
	case SortAsc:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortDesc:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(b.Price, a.Price) })
	}
	return out
}

func (uc *ProductUseCase) FindByCategory(categoryID int64) []Product {
	return uc.Search(Filter{CategoryID: &categoryID})
}

// InStock devolve os produtos com estoque positivo
func (uc *ProductUseCase) InStock() []Product {
	return uc.repository.Filter(func(p Product) bool { return p.Stock > 0 })
}

func (uc *ProductUseCase) Get(id int64) (Product, error) {
	p, ok := uc.repository.FindByID(id)
	if !ok {
		return Product{}, apperr.NotFound("product", id)
	}
	return p, nil
}

func (uc *ProductUseCase) Create(req CreateProductRequest) (Product, error) {
	req.Name = strings.TrimSpace(req.Name)

	fields := validator.New().
		Validate("name", req.Name, validator.Required(), validator.MaxLength(200)).
		Errors()
	fields = append(fields, checkAmounts(&req.Price, &req.Stock)...)
	if len(fields) > 0 {
		return Product{}, &apperr.ValidationError{Fields: fields}
	}

	now := uc.now()
	product := uc.repository.Insert(func(id int64) Product {
		return NewProduct(id, req, now)
	})

	uc.log.Info("✅ product created", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}

func (uc *ProductUseCase) Update(id int64, req UpdateProductRequest) (Product, error) {
	var fields []apperr.FieldError
	if req.Name != nil {
		*req.Name = strings.TrimSpace(*req.Name)
		fields = validator.New().
			Validate("name", *req.Name, validator.Required(), validator.MaxLength(200)).
			Errors()
	}
	fields = append(fields, checkAmounts(req.Price, req.Stock)...)
	if len(fields) > 0 {
		return Product{}, &apperr.ValidationError{Fields: fields}
	}

	product, ok, err := uc.repository.Update(id, func(p *Product) error {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.Stock != nil {
			p.Stock = *req.Stock
		}
		if req.CategoryID != nil {
			p.CategoryID = *req.CategoryID
		}
		p.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		return Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	if !ok {
		return Product{}, apperr.NotFound("product", id)
	}
	return product, nil
}

func (uc *ProductUseCase) Delete(id int64) error {
	if !uc.repository.Delete(id) {
		return apperr.NotFound("product", id)
	}
	uc.log.Info("🗑️ product deleted", zap.Int64("product_id", id))
	return nil
}

func checkAmounts(price *float64, stock *int) []apperr.FieldError {
	var fields []apperr.FieldError
	if price != nil && *price < 0 {
		fields = append(fields, apperr.FieldError{Field: "price", Message: "price must not be negative"})
	}
	if stock != nil && *stock < 0 {
		fields = append(fields, apperr.FieldError{Field: "stock", Message: "stock must not be negative"})
	}
	return fields
}
