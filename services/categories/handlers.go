package categories

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/commerce-api/internal/httpx"
)

// CategoryHandler contém os handlers HTTP de categorias
type CategoryHandler struct {
	useCase *CategoryUseCase
	tracer  trace.Tracer
}

// NewCategoryHandler cria uma nova instância de CategoryHandler
func NewCategoryHandler(useCase *CategoryUseCase, tracer trace.Tracer) *CategoryHandler {
	return &CategoryHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// RegisterRoutes monta as rotas em /api/categories
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/slug/:slug", h.GetBySlug)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/subcategories", h.Subcategories)
	rg.POST("", h.Create)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *CategoryHandler) List(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "list_categories")
	defer span.End()

	c.JSON(http.StatusOK, h.useCase.List())
}

func (h *CategoryHandler) Get(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "get_category")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("category_id", id))

	category, err := h.useCase.Get(id)
	if err != nil {
		httpx.RespondError(c, span, err, "Category not found")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "get_category_by_slug")
	defer span.End()

	slug := c.Param("slug")
	span.SetAttributes(attribute.String("slug", slug))

	category, err := h.useCase.GetBySlug(slug)
	if err != nil {
		httpx.RespondError(c, span, err, "Category not found")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Subcategories(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "list_subcategories")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("category_id", id))

	c.JSON(http.StatusOK, h.useCase.Subcategories(id))
}

func (h *CategoryHandler) Create(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "create_category")
	defer span.End()

	var req CreateCategoryRequest
	if !httpx.BindJSON(c, span, &req, "Failed to create category") {
		return
	}

	category, err := h.useCase.Create(req)
	if err != nil {
		httpx.RespondError(c, span, err, "Failed to create category")
		return
	}
	span.SetAttributes(attribute.Int64("category_id", category.ID))
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "update_category")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("category_id", id))

	var req UpdateCategoryRequest
	if !httpx.BindJSON(c, span, &req, "Failed to update category") {
		return
	}

	category, err := h.useCase.Update(id, req)
	if err != nil {
		msg := "Category not found"
		if httpx.StatusFor(err) == http.StatusBadRequest {
			msg = "Failed to update category"
		}
		httpx.RespondError(c, span, err, msg)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "delete_category")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("category_id", id))

	if err := h.useCase.Delete(id); err != nil {
		httpx.RespondError(c, span, err, "Category not found")
		return
	}
	c.Status(http.StatusNoContent)
}
