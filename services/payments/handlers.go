package payments

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/commerce-api/internal/httpx"
)

// PaymentHandler contém os handlers HTTP de pagamentos
type PaymentHandler struct {
	useCase *PaymentUseCase
	tracer  trace.Tracer
}

// NewPaymentHandler cria uma nova instância de PaymentHandler
func NewPaymentHandler(useCase *PaymentUseCase, tracer trace.Tracer) *PaymentHandler {
	return &PaymentHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// RegisterRoutes monta as rotas em /api/payments; o grupo deve exigir autenticação
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/revenue", h.Revenue)
	rg.GET("/:id", h.Get)
	rg.GET("/order/:orderId", h.GetByOrder)
	rg.POST("", h.Process)
	rg.POST("/:id/refund", h.Refund)
}

// List aceita ?status
func (h *PaymentHandler) List(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "list_payments")
	defer span.End()

	status := c.Query("status")
	if status == "" {
		c.JSON(http.StatusOK, h.useCase.List())
		return
	}
	span.SetAttributes(attribute.String("status", status))

	payments, err := h.useCase.ByStatus(Status(status))
	if err != nil {
		httpx.RespondError(c, span, err, "Invalid payment status")
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) Revenue(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "total_revenue")
	defer span.End()

	c.JSON(http.StatusOK, gin.H{"totalRevenue": h.useCase.TotalRevenue()})
}

func (h *PaymentHandler) Get(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "get_payment")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("payment_id", id))

	payment, err := h.useCase.Get(id)
	if err != nil {
		httpx.RespondError(c, span, err, "Payment not found")
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) GetByOrder(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "get_payment_by_order")
	defer span.End()

	orderID, ok := httpx.ParamID(c, "orderId")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("order_id", orderID))

	payment, err := h.useCase.GetByOrderID(orderID)
	if err != nil {
		httpx.RespondError(c, span, err, "Payment not found for this order")
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) Process(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "process_payment")
	defer span.End()

	var req ProcessPaymentRequest
	if !httpx.BindJSON(c, span, &req, "Failed to process payment") {
		return
	}
	span.SetAttributes(
		attribute.Int64("order_id", req.OrderID),
		attribute.String("method", string(req.Method)),
	)

	payment, err := h.useCase.Process(ctx, req)
	if err != nil {
		httpx.RespondError(c, span, err, "Failed to process payment")
		return
	}
	span.SetAttributes(attribute.String("transaction_id", payment.TransactionID))
	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "refund_payment")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("payment_id", id))

	payment, err := h.useCase.Refund(id)
	if err != nil {
		httpx.RespondError(c, span, err, "Payment not found")
		return
	}
	c.JSON(http.StatusOK, payment)
}
