package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/commerce-api/internal/apperr"
	"github.com/matheusmosca/commerce-api/internal/httpx"
)

// UserHandler contém os handlers HTTP de usuários
type UserHandler struct {
	useCase *UserUseCase
	tracer  trace.Tracer
}

// NewUserHandler cria uma nova instância de UserHandler
func NewUserHandler(useCase *UserUseCase, tracer trace.Tracer) *UserHandler {
	return &UserHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// RegisterRoutes monta as rotas em /api/users
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/password-reset", h.PasswordReset)
}

// List aceita ?query para filtrar pelo nome
func (h *UserHandler) List(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "list_users")
	defer span.End()

	httpx.Paginated(c, h.useCase.List(c.Query("query")))
}

func (h *UserHandler) Get(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "get_user")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("user_id", id))

	user, err := h.useCase.Get(id)
	if err != nil {
		httpx.RespondError(c, span, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Create(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "create_user")
	defer span.End()

	var req CreateUserRequest
	if !httpx.BindJSON(c, span, &req, "Invalid user data") {
		return
	}

	user, err := h.useCase.Create(ctx, req)
	if err != nil {
		httpx.RespondError(c, span, err, createMessage(err))
		return
	}
	span.SetAttributes(attribute.Int64("user_id", user.ID))
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "update_user")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("user_id", id))

	var req UpdateUserRequest
	if !httpx.BindJSON(c, span, &req, "Invalid user data") {
		return
	}

	user, err := h.useCase.Update(id, req)
	if err != nil {
		msg := "User not found"
		if httpx.StatusFor(err) == http.StatusBadRequest {
			msg = createMessage(err)
		}
		httpx.RespondError(c, span, err, msg)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "delete_user")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("user_id", id))

	if err := h.useCase.Delete(id); err != nil {
		httpx.RespondError(c, span, err, "User not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) PasswordReset(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "password_reset")
	defer span.End()

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("user_id", id))

	if err := h.useCase.RequestPasswordReset(ctx, id); err != nil {
		message := "Failed to send password reset email"
		if errors.Is(err, apperr.ErrNotFound) {
			message = "User not found"
		}
		httpx.RespondError(c, span, err, message)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

func createMessage(err error) string {
	if errors.Is(err, ErrEmailTaken) {
		return "User already exists"
	}
	return "Invalid user data"
}
