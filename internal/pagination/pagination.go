package pagination

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type Page[T any] struct {
	Data       []T  `json:"data"`
	Pagination Meta `json:"pagination"`
}

// ParamsFromQuery interpreta ?page e ?limit. Valores ausentes, inválidos ou
// zero caem nos padrões antes do clamp.
func ParamsFromQuery(page, limit string) Params {
	return NewParams(parseOr(page, DefaultPage), parseOr(limit, DefaultLimit))
}

// NewParams aplica page >= 1 e 1 <= limit <= MaxLimit.
func NewParams(page, limit int) Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

func parseOr(raw string, def int) int {
	// prefixo numérico, como parseInt("12abc") == 12
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && (raw[end] >= '0' && raw[end] <= '9' || end == 0 && raw[end] == '-') {
		end++
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil || n == 0 {
		return def
	}
	return n
}

// Paginate fatia items na página pedida. Páginas fora do intervalo devolvem Data vazio.
func Paginate[T any](items []T, page, limit int) Page[T] {
	p := NewParams(page, limit)
	total := len(items)

	data := []T{}
	if p.Offset < total {
		end := p.Offset + p.Limit
		if end > total {
			end = total
		}
		data = append(data, items[p.Offset:end]...)
	}

	return Page[T]{
		Data: data,
		Pagination: Meta{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      total,
			TotalPages: (total + p.Limit - 1) / p.Limit,
		},
	}
}
