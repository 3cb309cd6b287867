// Package payments processa pagamentos de pedidos. A aprovação é simulada:
// todo pagamento nasce pending e é concluído depois de um atraso.
package payments

import (
	"time"
)

// Method é a forma de pagamento
type Method string

const (
	MethodCreditCard     Method = "credit_card"
	MethodPayPal         Method = "paypal"
	MethodBankTransfer   Method = "bank_transfer"
	MethodCryptocurrency Method = "cryptocurrency"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCreditCard, MethodPayPal, MethodBankTransfer, MethodCryptocurrency:
		return true
	}
	return false
}

// Status é o status de um pagamento
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// Payment representa um pagamento
type Payment struct {
	ID            int64     `json:"id"`
	OrderID       int64     `json:"orderId"`
	Amount        float64   `json:"amount"`
	Method        Method    `json:"method"`
	Status        Status    `json:"status"`
	TransactionID string    `json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProcessPaymentRequest é o corpo de POST /api/payments
type ProcessPaymentRequest struct {
	OrderID   int64   `json:"orderId"`
	Amount    float64 `json:"amount"`
	Method    Method  `json:"method"`
	CardToken string  `json:"cardToken,omitempty"`
}

// NewPayment cria uma nova instância de Payment com status pending
func NewPayment(id int64, req ProcessPaymentRequest, transactionID string, now time.Time) Payment {
	return Payment{
		ID:            id,
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        StatusPending,
		TransactionID: transactionID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
