package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matheusmosca/commerce-api/internal/apperr"
)

var errNotPending = errors.New("payment is no longer pending")

// Recorder recebe as métricas de negócio
type Recorder interface {
	RecordMetric(ctx context.Context, name string, value float64)
}

// MetricPaymentsProcessed é a série com o valor de cada pagamento aceito
const MetricPaymentsProcessed = "payments.processed"

// PaymentUseCase contém a lógica de negócio de pagamentos
type PaymentUseCase struct {
	repository      PaymentRepository
	scheduler       *Scheduler
	completionDelay time.Duration
	metrics         Recorder
	log             *zap.Logger
	now             func() time.Time
}

// NewPaymentUseCase cria uma nova instância de PaymentUseCase.
// Os pagamentos são concluídos completionDelay depois de criados.
func NewPaymentUseCase(repository PaymentRepository, completionDelay time.Duration, metrics Recorder, log *zap.Logger) *PaymentUseCase {
	return &PaymentUseCase{
		repository:      repository,
		scheduler:       NewScheduler(),
		completionDelay: completionDelay,
		metrics:         metrics,
		log:             log.Named("payments"),
		now:             time.Now,
	}
}

// GenerateTransactionID devolve TXN-<unix ms>-<9 caracteres alfanuméricos maiúsculos>
func GenerateTransactionID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
	return fmt.Sprintf("TXN-%d-%s", now.UnixMilli(), suffix)
}

func (uc *PaymentUseCase) List() []Payment {
	return uc.repository.FindAll()
}

func (uc *PaymentUseCase) Get(id int64) (Payment, error) {
	p, ok := uc.repository.FindByID(id)
	if !ok {
		return Payment{}, apperr.NotFound("payment", id)
	}
	return p, nil
}

func (uc *PaymentUseCase) GetByOrderID(orderID int64) (Payment, error) {
	p, ok := uc.repository.FindByOrderID(orderID)
	if !ok {
		return Payment{}, fmt.Errorf("payment for order %d: %w", orderID, apperr.ErrNotFound)
	}
	return p, nil
}

func (uc *PaymentUseCase) ByStatus(status Status) ([]Payment, error) {
	if !status.Valid() {
		return nil, apperr.Invalid("unknown payment status %q", status)
	}
	return uc.repository.Filter(func(p Payment) bool { return p.Status == status }), nil
}

// Process grava o pagamento como pending e agenda a conclusão.
// Sem method, assume credit_card.
func (uc *PaymentUseCase) Process(ctx context.Context, req ProcessPaymentRequest) (Payment, error) {
	if req.Method == "" {
		req.Method = MethodCreditCard
	}

	var fields []apperr.FieldError
	if req.OrderID <= 0 {
		fields = append(fields, apperr.FieldError{Field: "orderId", Message: "orderId is required"})
	}
	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		fields = append(fields, apperr.FieldError{Field: "amount", Message: "amount must be positive"})
	}
	if !req.Method.Valid() {
		fields = append(fields, apperr.FieldError{Field: "method", Message: fmt.Sprintf("method %q is not supported", req.Method)})
	}
	if len(fields) > 0 {
		return Payment{}, &apperr.ValidationError{Fields: fields}
	}

	now := uc.now()
	payment := uc.repository.Insert(func(id int64) Payment {
		return NewPayment(id, req, GenerateTransactionID(now), now)
	})

	uc.log.Info("🚀 payment processing",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("order_id", payment.OrderID),
		zap.String("transaction_id", payment.TransactionID),
	)
	uc.metrics.RecordMetric(ctx, MetricPaymentsProcessed, payment.Amount)

	id := payment.ID
	if !uc.scheduler.After(uc.completionDelay, func(context.Context) { uc.complete(id) }) {
		uc.log.Warn("⚠️ payment left pending, scheduler stopped", zap.Int64("payment_id", id))
	}
	return payment, nil
}

// complete só conclui pagamentos que ainda estão pending
func (uc *PaymentUseCase) complete(id int64) {
	_, ok, err := uc.repository.Update(id, func(p *Payment) error {
		if p.Status != StatusPending {
			return errNotPending
		}
		p.Status = StatusCompleted
		p.UpdatedAt = uc.now()
		return nil
	})
	switch {
	case !ok:
		uc.log.Warn("⚠️ completed payment not found", zap.Int64("payment_id", id))
	case err != nil:
		uc.log.Info("ℹ️ payment completion skipped", zap.Int64("payment_id", id), zap.Error(err))
	default:
		uc.log.Info("✅ payment completed", zap.Int64("payment_id", id))
	}
}

// Refund marca o pagamento como refunded qualquer que seja o status atual
func (uc *PaymentUseCase) Refund(id int64) (Payment, error) {
	payment, ok, err := uc.repository.Update(id, func(p *Payment) error {
		p.Status = StatusRefunded
		p.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		return Payment{}, fmt.Errorf("refund payment %d: %w", id, err)
	}
	if !ok {
		return Payment{}, apperr.NotFound("payment", id)
	}

	uc.log.Info("↩️ payment refunded", zap.Int64("payment_id", id))
	return payment, nil
}

// TotalRevenue soma os pagamentos completed, arredondado para centavos
func (uc *PaymentUseCase) TotalRevenue() float64 {
	var sum float64
	for _, p := range uc.repository.Filter(func(p Payment) bool { return p.Status == StatusCompleted }) {
		sum += p.Amount
	}
	return math.Round(sum*100) / 100
}

// Shutdown cancela as conclusões ainda agendadas e espera as que estão rodando
func (uc *PaymentUseCase) Shutdown(ctx context.Context) error {
	return uc.scheduler.Shutdown(ctx)
}
