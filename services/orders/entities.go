// Package orders registra pedidos e o ciclo de status de cada um.
package orders

import (
	"math"
	"slices"
	"time"
)

// Status representa o status de um pedido
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

const DefaultRecentDays = 30

// Valid informa se s é um dos status conhecidos
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderItem é uma linha do pedido com o preço unitário no momento da compra
type OrderItem struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order representa um pedido
type Order struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"userId"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"totalAmount"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// CreateOrderRequest é o corpo de POST /api/orders
type CreateOrderRequest struct {
	UserID int64       `json:"userId"`
	Items  []OrderItem `json:"items"`
}

// UpdateStatusRequest é o corpo de PATCH /api/orders/:id/status
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

// Total soma price * quantity e arredonda para centavos
func Total(items []OrderItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return math.Round(sum*100) / 100
}

// NewOrder cria uma nova instância de Order com status pending
func NewOrder(id, userID int64, items []OrderItem, now time.Time) Order {
	items = slices.Clone(items)
	return Order{
		ID:          id,
		UserID:      userID,
		Items:       items,
		TotalAmount: Total(items),
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
