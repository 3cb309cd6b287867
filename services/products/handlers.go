package products

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/commerce-api/internal/httpx"
)

// ProductHandler contém os handlers HTTP do catálogo
type ProductHandler struct {
	useCase *ProductUseCase
	tracer  trace.Tracer
}

// NewProductHandler cria uma nova instância de ProductHandler
func NewProductHandler(useCase *ProductUseCase, tracer trace.Tracer) *ProductHandler {
	return &ProductHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// RegisterRoutes monta as rotas em /api/products
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/in-stock", h.InStock)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List aceita ?categoryId, ?query, ?minPrice, ?maxPrice e ?sort=price&order=asc|desc
func (h *ProductHandler) List(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "list_products")
	defer span.End()

	filter, ok := parseFilter(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid query parameters"})
		return
	}
	span.SetAttributes(attribute.String("query", filter.Query), attribute.String("sort", string(filter.Sort)))

	httpx.Paginated(c, h.useCase.Search(filter))
}

func (h *ProductHandler) InStock(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "list_products_in_stock")
	defer span.End()

	c.JSON(http.StatusOK, h.useCase.InStock())
}

func (h *ProductHandler) Get(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "get_product")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("product_id", id))

	product, err := h.useCase.Get(id)
	if err != nil {
		httpx.RespondError(c, span, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "create_product")
	defer span.End()

	var req CreateProductRequest
	if !httpx.BindJSON(c, span, &req, "Invalid product data") {
		return
	}

	product, err := h.useCase.Create(req)
	if err != nil {
		httpx.RespondError(c, span, err, "Invalid product data")
		return
	}
	span.SetAttributes(attribute.Int64("product_id", product.ID))
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "update_product")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("product_id", id))

	var req UpdateProductRequest
	if !httpx.BindJSON(c, span, &req, "Invalid product data") {
		return
	}

	product, err := h.useCase.Update(id, req)
	if err != nil {
		msg := "Product not found"
		if httpx.StatusFor(err) == http.StatusBadRequest {
			msg = "Invalid product data"
		}
		httpx.RespondError(c, span, err, msg)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "delete_product")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("product_id", id))

	if err := h.useCase.Delete(id); err != nil {
		httpx.RespondError(c, span, err, "Product not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func parseFilter(c *gin.Context) (Filter, bool) {
	f := Filter{Query: c.Query("query")}

	if v, ok, invalid := httpx.QueryInt64(c, "categoryId"); invalid {
		return f, false
	} else if ok {
		f.CategoryID = &v
	}
	if v, ok, invalid := httpx.QueryFloat(c, "minPrice"); invalid {
		return f, false
	} else if ok {
		f.MinPrice = &v
	}
	if v, ok, invalid := httpx.QueryFloat(c, "maxPrice"); invalid {
		return f, false
	} else if ok {
		f.MaxPrice = &v
	}

	switch sort := c.Query("sort"); sort {
	case "":
	case "price":
		f.Sort = SortAsc
		if strings.EqualFold(c.Query("order"), "desc") {
			f.Sort = SortDesc
		}
	default:
		return f, false
	}
	return f, true
}
