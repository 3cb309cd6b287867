package orders

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/matheusmosca/commerce-api/internal/apperr"
	"github.com/matheusmosca/commerce-api/internal/email"
)

var ErrNotCancellable = fmt.Errorf("only pending orders can be cancelled: %w", apperr.ErrRuleViolation)

// Mailer é o que os pedidos precisam do serviço de e-mail
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to string, orderID int64) email.Result
}

// Recipients resolve o e-mail de um usuário
type Recipients interface {
	EmailFor(userID int64) (string, bool)
}

// Recorder recebe as métricas de negócio
type Recorder interface {
	RecordMetric(ctx context.Context, name string, value float64)
}

// MetricOrdersCreated é a série com o total de cada pedido criado
const MetricOrdersCreated = "orders.created"

// OrderUseCase contém a lógica de negócio de pedidos
type OrderUseCase struct {
	repository OrderRepository
	recipients Recipients
	mailer     Mailer
	metrics    Recorder
	log        *zap.Logger
	now        func() time.Time
}

// NewOrderUseCase cria uma nova instância de OrderUseCase
func NewOrderUseCase(repository OrderRepository, recipients Recipients, mailer Mailer, metrics Recorder, log *zap.Logger) *OrderUseCase {
	return &OrderUseCase{
		repository: repository,
		recipients: recipients,
		mailer:     mailer,
		metrics:    metrics,
		log:        log.Named("orders"),
		now:        time.Now,
	}
}

func (uc *OrderUseCase) List() []Order {
	return uc.repository.FindAll()
}

func (uc *OrderUseCase) Get(id int64) (Order, error) {
	o, ok := uc.repository.FindByID(id)
	if !ok {
		return Order{}, apperr.NotFound("order", id)
	}
	return o, nil
}

func (uc *OrderUseCase) FindByUserID(userID int64) []Order {
	return uc.repository.Filter(func(o Order) bool { return o.UserID == userID })
}

// Recent devolve os pedidos criados nos últimos days dias
func (uc *OrderUseCase) Recent(days int) []Order {
	cutoff := uc.now().AddDate(0, 0, -days)
	return uc.repository.Filter(func(o Order) bool { return !o.CreatedAt.Before(cutoff) })
}

// Create calcula o total, grava o pedido como pending e envia a confirmação
// quando o e-mail do usuário é conhecido. O produto não é verificado.
func (uc *OrderUseCase) Create(ctx context.Context, req CreateOrderRequest) (Order, error) {
	if err := validateCreate(req); err != nil {
		return Order{}, err
	}

	now := uc.now()
	order := uc.repository.Insert(func(id int64) Order {
		return NewOrder(id, req.UserID, req.Items, now)
	})

	uc.log.Info("🚀 order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", order.UserID),
		zap.Float64("total", order.TotalAmount),
	)
	uc.metrics.RecordMetric(ctx, MetricOrdersCreated, order.TotalAmount)

	if to, ok := uc.recipients.EmailFor(order.UserID); ok {
		if res := uc.mailer.SendOrderConfirmation(ctx, to, order.ID); !res.Success {
			uc.log.Warn("⚠️ order confirmation not sent", zap.Int64("order_id", order.ID), zap.String("error", res.Error))
		}
	}

	return order, nil
}

// UpdateStatus sobrescreve o status com qualquer valor conhecido
func (uc *OrderUseCase) UpdateStatus(id int64, status Status) (Order, error) {
	if !status.Valid() {
		return Order{}, apperr.Invalid("unknown order status %q", status)
	}

	order, ok, err := uc.repository.Update(id, func(o *Order) error {
		o.Status = status
		o.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		return Order{}, fmt.Errorf("update order %d: %w", id, err)
	}
	if !ok {
		return Order{}, apperr.NotFound("order", id)
	}

	uc.log.Info("✅ order status updated", zap.Int64("order_id", id), zap.String("status", string(status)))
	return order, nil
}

// Cancel só passa pedidos pending para cancelled
func (uc *OrderUseCase) Cancel(id int64) (Order, error) {
	order, ok, err := uc.repository.Update(id, func(o *Order) error {
		if o.Status != StatusPending {
			return ErrNotCancellable
		}
		o.Status = StatusCancelled
		o.UpdatedAt = uc.now()
		return nil
	})
	if !ok {
		return Order{}, apperr.NotFound("order", id)
	}
	if err != nil {
		uc.log.Warn("❌ cancel rejected", zap.Int64("order_id", id), zap.String("status", string(order.Status)))
		return Order{}, fmt.Errorf("order %d: %w", id, err)
	}

	uc.log.Info("↩️ order cancelled", zap.Int64("order_id", id))
	return order, nil
}

func validateCreate(req CreateOrderRequest) error {
	var fields []apperr.FieldError
	if req.UserID <= 0 {
		fields = append(fields, apperr.FieldError{Field: "userId", Message: "userId is required"})
	}
	if len(req.Items) == 0 {
		fields = append(fields, apperr.FieldError{Field: "items", Message: "items must not be empty"})
	}
	for i, it := range req.Items {
		if it.Quantity <= 0 {
			fields = append(fields, apperr.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must be positive",
			})
		}
		if it.Price < 0 {
			fields = append(fields, apperr.FieldError{
				Field:   fmt.Sprintf("items[%d].price", i),
				Message: "price must not be negative",
			})
		}
	}
	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}
	return nil
}
