package reviews

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/commerce-api/internal/httpx"
)

// ReviewHandler contém os handlers HTTP de avaliações
type ReviewHandler struct {
	useCase *ReviewUseCase
	tracer  trace.Tracer
}

// NewReviewHandler cria uma nova instância de ReviewHandler
func NewReviewHandler(useCase *ReviewUseCase, tracer trace.Tracer) *ReviewHandler {
	return &ReviewHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// RegisterRoutes monta as rotas em /api/reviews
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/product/:productId/rating", h.AverageRating)
	rg.POST("", h.Create)
	rg.POST("/:id/helpful", h.MarkHelpful)
	rg.DELETE("/:id", h.Delete)
}

// List aceita ?productId ou ?userId
func (h *ReviewHandler) List(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "list_reviews")
	defer span.End()

	productID, byProduct, badProduct := httpx.QueryInt64(c, "productId")
	userID, byUser, badUser := httpx.QueryInt64(c, "userId")
	if badProduct || badUser {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid query parameters"})
		return
	}

	switch {
	case byProduct:
		span.SetAttributes(attribute.Int64("product_id", productID))
		c.JSON(http.StatusOK, h.useCase.FindByProductID(productID))
	case byUser:
		span.SetAttributes(attribute.Int64("user_id", userID))
		c.JSON(http.StatusOK, h.useCase.FindByUserID(userID))
	default:
		c.JSON(http.StatusOK, h.useCase.List())
	}
}

func (h *ReviewHandler) Get(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "get_review")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("review_id", id))

	review, err := h.useCase.Get(id)
	if err != nil {
		httpx.RespondError(c, span, err, "Review not found")
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) AverageRating(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "average_rating")
	defer span.End()

	productID, ok := httpx.ParamID(c, "productId")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("product_id", productID))

	c.JSON(http.StatusOK, gin.H{"productId": productID, "averageRating": h.useCase.AverageRating(productID)})
}

func (h *ReviewHandler) Create(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "create_review")
	defer span.End()

	var req CreateReviewRequest
	if !httpx.BindJSON(c, span, &req, "Failed to create review") {
		return
	}
	span.SetAttributes(attribute.Int64("product_id", req.ProductID), attribute.Int("rating", req.Rating))

	review, err := h.useCase.Create(req)
	if err != nil {
		httpx.RespondError(c, span, err, "Failed to create review")
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) MarkHelpful(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "mark_review_helpful")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("review_id", id))

	review, err := h.useCase.MarkHelpful(id)
	if err != nil {
		httpx.RespondError(c, span, err, "Review not found")
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "delete_review")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("review_id", id))

	if err := h.useCase.Delete(id); err != nil {
		httpx.RespondError(c, span, err, "Review not found")
		return
	}
	c.Status(http.StatusNoContent)
}
