// Package httpx reúne o que os handlers gin compartilham: mapeamento de erros
// para status HTTP, leitura de parâmetros e os middlewares globais.
package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/commerce-api/internal/apperr"
	"github.com/matheusmosca/commerce-api/internal/pagination"
)

// StatusFor traduz a taxonomia de apperr para um status HTTP.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidInput), errors.Is(err, apperr.ErrRuleViolation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError escreve {"message": message} com o status de err e marca o span.
// Erros de validação levam a lista de campos em "errors".
func RespondError(c *gin.Context, span trace.Span, err error, message string) {
	status := StatusFor(err)

	if span != nil {
		span.RecordError(err)
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, err.Error())
		}
	}

	body := gin.H{"message": message}
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		body["errors"] = verr.Fields
	case status == http.StatusBadRequest:
		body["error"] = err.Error()
	case status >= http.StatusInternalServerError:
		_ = c.Error(err)
	}

	c.AbortWithStatusJSON(status, body)
}

// BindJSON decodifica o corpo em dst; em caso de erro responde 400 e devolve false.
func BindJSON(c *gin.Context, span trace.Span, dst any, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if span != nil {
			span.RecordError(err)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": message, "error": err.Error()})
		return false
	}
	return true
}

// ParamID lê um id numérico do path; em caso de erro responde 400 e devolve false.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// QueryInt64 lê um parâmetro de query opcional. ok é false quando ausente ou
// inválido; invalid distingue os dois casos.
func QueryInt64(c *gin.Context, name string) (v int64, ok bool, invalid bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return 0, false, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, true
	}
	return v, true, false
}

// QueryFloat é QueryInt64 para números decimais.
func QueryFloat(c *gin.Context, name string) (v float64, ok bool, invalid bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, true
	}
	return v, true, false
}

func PaginationParams(c *gin.Context) pagination.Params {
	return pagination.ParamsFromQuery(c.Query("page"), c.Query("limit"))
}

// Paginated responde 200 com a página pedida por ?page e ?limit.
func Paginated[T any](c *gin.Context, items []T) {
	p := PaginationParams(c)
	c.JSON(http.StatusOK, pagination.Paginate(items, p.Page, p.Limit))
}
