package inventory

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/commerce-api/internal/apperr"
	"github.com/matheusmosca/commerce-api/internal/httpx"
)

// InventoryHandler contém os handlers HTTP de estoque
type InventoryHandler struct {
	useCase *InventoryUseCase
	tracer  trace.Tracer
}

// NewInventoryHandler cria uma nova instância de InventoryHandler
func NewInventoryHandler(useCase *InventoryUseCase, tracer trace.Tracer) *InventoryHandler {
	return &InventoryHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// RegisterRoutes monta as rotas em /api/inventory
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/product/:productId", h.GetByProduct)
	rg.PATCH("/product/:productId", h.Update)
	rg.GET("/low-stock", h.LowStock)
	rg.GET("/warehouses", h.Warehouses)
	rg.GET("/warehouses/:id/capacity", h.WarehouseCapacity)
	rg.POST("/reserve", h.Reserve)
	rg.POST("/release-reservation", h.ReleaseReservation)
}

// List aceita ?sku para buscar um único item
func (h *InventoryHandler) List(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "list_inventory")
	defer span.End()

	if sku := c.Query("sku"); sku != "" {
		span.SetAttributes(attribute.String("sku", sku))
		item, err := h.useCase.GetBySKU(sku)
		if err != nil {
			httpx.RespondError(c, span, err, "Inventory item not found")
			return
		}
		c.JSON(http.StatusOK, item)
		return
	}

	c.JSON(http.StatusOK, h.useCase.List())
}

func (h *InventoryHandler) Create(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "create_inventory")
	defer span.End()

	var req CreateInventoryRequest
	if !httpx.BindJSON(c, span, &req, "Invalid inventory data") {
		return
	}
	span.SetAttributes(attribute.Int64("product_id", req.ProductID))

	item, err := h.useCase.Create(req)
	if err != nil {
		msg := "Invalid inventory data"
		if errors.Is(err, ErrAlreadyTracked) {
			msg = "Inventory already exists for this product"
		}
		httpx.RespondError(c, span, err, msg)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) GetByProduct(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "get_inventory_by_product")
	defer span.End()

	productID, ok := httpx.ParamID(c, "productId")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("product_id", productID))

	item, err := h.useCase.GetByProductID(productID)
	if err != nil {
		httpx.RespondError(c, span, err, "Inventory item not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "update_inventory")
	defer span.End()

	productID, ok := httpx.ParamID(c, "productId")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("product_id", productID))

	var req UpdateInventoryRequest
	if !httpx.BindJSON(c, span, &req, "Invalid inventory data") {
		return
	}

	item, err := h.useCase.UpdateStock(productID, req)
	if err != nil {
		msg := "Inventory item not found"
		if httpx.StatusFor(err) == http.StatusBadRequest {
			msg = "Invalid inventory data"
		}
		httpx.RespondError(c, span, err, msg)
		return
	}
	c.JSON(http.StatusOK, item)
}

// LowStock aceita ?threshold, padrão 10
func (h *InventoryHandler) LowStock(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "list_low_stock")
	defer span.End()

	threshold := DefaultLowStockThreshold
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid threshold"})
			return
		}
		threshold = v
	}
	span.SetAttributes(attribute.Int("threshold", threshold))

	c.JSON(http.StatusOK, h.useCase.LowStock(threshold))
}

func (h *InventoryHandler) Warehouses(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "list_warehouses")
	defer span.End()

	c.JSON(http.StatusOK, h.useCase.Warehouses())
}

func (h *InventoryHandler) WarehouseCapacity(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "get_warehouse_capacity")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("warehouse_id", id))

	c.JSON(http.StatusOK, gin.H{"warehouseId": id, "availableCapacity": h.useCase.WarehouseCapacity(id)})
}

func (h *InventoryHandler) Reserve(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "reserve_stock")
	defer span.End()

	var req ReservationRequest
	if !httpx.BindJSON(c, span, &req, "Invalid reservation") {
		return
	}
	span.SetAttributes(attribute.Int64("product_id", req.ProductID), attribute.Int("quantity", req.Quantity))

	item, err := h.useCase.Reserve(req.ProductID, req.Quantity)
	if err != nil {
		httpx.RespondError(c, span, err, reservationMessage(err, "Insufficient stock"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock reserved successfully", "inventory": item})
}

func (h *InventoryHandler) ReleaseReservation(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "release_reservation")
	defer span.End()

	var req ReservationRequest
	if !httpx.BindJSON(c, span, &req, "Invalid reservation") {
		return
	}
	span.SetAttributes(attribute.Int64("product_id", req.ProductID), attribute.Int("quantity", req.Quantity))

	item, err := h.useCase.ReleaseReservation(req.ProductID, req.Quantity)
	if err != nil {
		httpx.RespondError(c, span, err, reservationMessage(err, "Failed to release reservation"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation released successfully", "inventory": item})
}

func reservationMessage(err error, ruleMessage string) string {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return "Inventory item not found"
	case errors.Is(err, apperr.ErrInvalidInput):
		return "Invalid reservation"
	default:
		return ruleMessage
	}
}
