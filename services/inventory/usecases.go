package inventory

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matheusmosca/commerce-api/internal/apperr"
)

var (
	ErrInsufficientStock    = fmt.Errorf("insufficient stock: %w", apperr.ErrRuleViolation)
	ErrInsufficientReserved = fmt.Errorf("reserved quantity too low: %w", apperr.ErrRuleViolation)
	ErrAlreadyTracked       = fmt.Errorf("product already has inventory: %w", apperr.ErrRuleViolation)
)

// InventoryUseCase contém a lógica de negócio do estoque
type InventoryUseCase struct {
	repository InventoryRepository
	log        *zap.Logger
	now        func() time.Time
}

// NewInventoryUseCase cria uma nova instância de InventoryUseCase
func NewInventoryUseCase(repository InventoryRepository, log *zap.Logger) *InventoryUseCase {
	return &InventoryUseCase{
		repository: repository,
		log:        log.Named("inventory"),
		now:        time.Now,
	}
}

func (uc *InventoryUseCase) List() []Inventory {
	return uc.repository.FindAll()
}

func (uc *InventoryUseCase) GetByProductID(productID int64) (Inventory, error) {
	item, ok := uc.repository.FindByProductID(productID)
	if !ok {
		return Inventory{}, fmt.Errorf("inventory for product %d: %w", productID, apperr.ErrNotFound)
	}
	return item, nil
}

func (uc *InventoryUseCase) GetBySKU(sku string) (Inventory, error) {
	item, ok := uc.repository.FindBySKU(sku)
	if !ok {
		return Inventory{}, fmt.Errorf("inventory sku %q: %w", sku, apperr.ErrNotFound)
	}
	return item, nil
}

// Create passa a controlar o estoque de um produto; SKU vazio vira SKU-<productId>
func (uc *InventoryUseCase) Create(req CreateInventoryRequest) (Inventory, error) {
	var fields []apperr.FieldError
	if req.ProductID <= 0 {
		fields = append(fields, apperr.FieldError{Field: "productId", Message: "productId is required"})
	}
	if req.Quantity < 0 {
		fields = append(fields, apperr.FieldError{Field: "quantity", Message: "quantity must not be negative"})
	}
	if len(fields) > 0 {
		return Inventory{}, &apperr.ValidationError{Fields: fields}
	}

	req.SKU = strings.TrimSpace(req.SKU)
	if req.SKU == "" {
		req.SKU = fmt.Sprintf("SKU-%d", req.ProductID)
	}

	now := uc.now()
	item, created := uc.repository.Insert(req.ProductID, func(id int64) Inventory {
		return NewInventory(id, req, now)
	})
	if !created {
		return Inventory{}, fmt.Errorf("product %d: %w", req.ProductID, ErrAlreadyTracked)
	}

	uc.log.Info("✅ inventory created", zap.Int64("product_id", item.ProductID), zap.Int("quantity", item.Quantity))
	return item, nil
}

// Reserve separa qty unidades se quantity - reserved >= qty
func (uc *InventoryUseCase) Reserve(productID int64, qty int) (Inventory, error) {
	if qty <= 0 {
		return Inventory{}, apperr.Invalid("quantity must be positive")
	}

	item, err := uc.mutate(productID, func(i *Inventory) error {
		if i.Available() < qty {
			return ErrInsufficientStock
		}
		i.Reserved += qty
		i.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		uc.log.Warn("❌ reserve failed", zap.Int64("product_id", productID), zap.Int("quantity", qty), zap.Error(err))
		return Inventory{}, err
	}

	uc.log.Info("✅ stock reserved", zap.Int64("product_id", productID), zap.Int("quantity", qty), zap.Int("reserved", item.Reserved))
	return item, nil
}

// ReleaseReservation devolve qty unidades reservadas se reserved >= qty
func (uc *InventoryUseCase) ReleaseReservation(productID int64, qty int) (Inventory, error) {
	if qty <= 0 {
		return Inventory{}, apperr.Invalid("quantity must be positive")
	}

	item, err := uc.mutate(productID, func(i *Inventory) error {
		if i.Reserved < qty {
			return ErrInsufficientReserved
		}
		i.Reserved -= qty
		i.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		uc.log.Warn("❌ release failed", zap.Int64("product_id", productID), zap.Int("quantity", qty), zap.Error(err))
		return Inventory{}, err
	}

	uc.log.Info("↩️ reservation released", zap.Int64("product_id", productID), zap.Int("quantity", qty))
	return item, nil
}

// UpdateStock altera quantidade e/ou local; mudar a quantidade renova lastRestocked
func (uc *InventoryUseCase) UpdateStock(productID int64, req UpdateInventoryRequest) (Inventory, error) {
	if req.Quantity != nil && *req.Quantity < 0 {
		return Inventory{}, apperr.Invalid("quantity must not be negative")
	}

	return uc.mutate(productID, func(i *Inventory) error {
		now := uc.now()
		if req.Quantity != nil {
			if *req.Quantity < i.Reserved {
				return apperr.Invalid("quantity %d is below reserved %d", *req.Quantity, i.Reserved)
			}
			i.Quantity = *req.Quantity
			i.LastRestocked = now
		}
		if req.Location != nil {
			i.Location = *req.Location
		}
		i.UpdatedAt = now
		return nil
	})
}

// LowStock devolve os itens com quantity - reserved <= threshold
func (uc *InventoryUseCase) LowStock(threshold int) []Inventory {
	return uc.repository.Filter(func(i Inventory) bool {
		return i.Available() <= threshold
	})
}

func (uc *InventoryUseCase) Warehouses() []Warehouse {
	return uc.repository.Warehouses()
}

// WarehouseCapacity é a capacidade livre do armazém, 0 quando ele não existe
func (uc *InventoryUseCase) WarehouseCapacity(id int64) int {
	w, ok := uc.repository.FindWarehouse(id)
	if !ok {
		return 0
	}
	return w.Capacity - w.CurrentLoad
}

func (uc *InventoryUseCase) mutate(productID int64, fn func(*Inventory) error) (Inventory, error) {
	item, ok, err := uc.repository.UpdateByProductID(productID, fn)
	if !ok {
		return Inventory{}, fmt.Errorf("inventory for product %d: %w", productID, apperr.ErrNotFound)
	}
	if err != nil {
		return Inventory{}, fmt.Errorf("product %d: %w", productID, err)
	}
	return item, nil
}
