package orders

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/commerce-api/internal/auth"
	"github.com/matheusmosca/commerce-api/internal/httpx"
)

// OrderHandler contém os handlers HTTP de pedidos
type OrderHandler struct {
	useCase *OrderUseCase
	tracer  trace.Tracer
}

// NewOrderHandler cria uma nova instância de OrderHandler
func NewOrderHandler(useCase *OrderUseCase, tracer trace.Tracer) *OrderHandler {
	return &OrderHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// RegisterRoutes monta as rotas em /api/orders; o grupo deve exigir autenticação
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.POST("/:id/cancel", h.Cancel)
}

// List aceita ?userId ou ?days; userId tem precedência
func (h *OrderHandler) List(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "list_orders")
	defer span.End()

	if userID, ok, invalid := httpx.QueryInt64(c, "userId"); invalid {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid userId"})
		return
	} else if ok {
		span.SetAttributes(attribute.Int64("user_id", userID))
		httpx.Paginated(c, h.useCase.FindByUserID(userID))
		return
	}

	if raw := c.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid days"})
			return
		}
		span.SetAttributes(attribute.Int("days", days))
		httpx.Paginated(c, h.useCase.Recent(days))
		return
	}

	httpx.Paginated(c, h.useCase.List())
}

func (h *OrderHandler) Get(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "get_order")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("order_id", id))

	order, err := h.useCase.Get(id)
	if err != nil {
		httpx.RespondError(c, span, err, "Order not found")
		return
	}
	c.JSON(http.StatusOK, order)
}

// Create usa o usuário do token quando userId não vem no corpo
func (h *OrderHandler) Create(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "create_order")
	defer span.End()

	var req CreateOrderRequest
	if !httpx.BindJSON(c, span, &req, "Invalid order data") {
		return
	}
	if claims, ok := auth.ClaimsFrom(c); ok && req.UserID == 0 {
		req.UserID = claims.UserID
	}
	span.SetAttributes(attribute.Int64("user_id", req.UserID), attribute.Int("items", len(req.Items)))

	order, err := h.useCase.Create(ctx, req)
	if err != nil {
		httpx.RespondError(c, span, err, "Invalid order data")
		return
	}
	span.SetAttributes(attribute.Int64("order_id", order.ID))
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "update_order_status")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !httpx.BindJSON(c, span, &req, "Invalid order status") {
		return
	}
	span.SetAttributes(attribute.Int64("order_id", id), attribute.String("status", string(req.Status)))

	order, err := h.useCase.UpdateStatus(id, req.Status)
	if err != nil {
		msg := "Order not found"
		if httpx.StatusFor(err) == http.StatusBadRequest {
			msg = "Invalid order status"
		}
		httpx.RespondError(c, span, err, msg)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Cancel responde 404 tanto para pedido inexistente quanto para não cancelável
func (h *OrderHandler) Cancel(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "cancel_order")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("order_id", id))

	order, err := h.useCase.Cancel(id)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found or cannot be cancelled"})
		return
	}
	c.JSON(http.StatusOK, order)
}
