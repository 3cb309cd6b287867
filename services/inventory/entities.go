// Package inventory controla o estoque físico por produto e os armazéns.
package inventory

import (
	"time"
)

const DefaultLowStockThreshold = 10

// Inventory é o estoque de um produto
type Inventory struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"productId"`
	Quantity      int       `json:"quantity"`
	Reserved      int       `json:"reserved"`
	Location      string    `json:"location"`
	SKU           string    `json:"sku"`
	LastRestocked time.Time `json:"lastRestocked"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Available é a quantidade ainda não reservada
func (i Inventory) Available() int {
	return i.Quantity - i.Reserved
}

// Warehouse representa um armazém
type Warehouse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	CurrentLoad int    `json:"currentLoad"`
}

// CreateInventoryRequest é o corpo de POST /api/inventory
type CreateInventoryRequest struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Location  string `json:"location"`
	SKU       string `json:"sku"`
}

// UpdateInventoryRequest é o corpo de PATCH /api/inventory/product/:productId
type UpdateInventoryRequest struct {
	Quantity *int    `json:"quantity"`
	Location *string `json:"location"`
}

// ReservationRequest é o corpo de /reserve e /release-reservation
type ReservationRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// NewInventory cria uma nova instância de Inventory
func NewInventory(id int64, req CreateInventoryRequest, now time.Time) Inventory {
	return Inventory{
		ID:            id,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		Location:      req.Location,
		SKU:           req.SKU,
		LastRestocked: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
