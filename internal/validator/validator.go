// Package validator acumula erros de validação por campo.
//
// Todas as regras de um campo são avaliadas, sem curto-circuito, e todas as
// violações de uma submissão são reportadas juntas.
package validator

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matheusmosca/commerce-api/internal/apperr"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type RuleKind int

const (
	KindRequired RuleKind = iota
	KindEmail
	KindMinLength
	KindMaxLength
	KindNumeric
)

// Rule é uma regra tipada; N só vale para MinLength e MaxLength.
type Rule struct {
	Kind RuleKind
	N    int
}

func Required() Rule       { return Rule{Kind: KindRequired} }
func Email() Rule          { return Rule{Kind: KindEmail} }
func MinLength(n int) Rule { return Rule{Kind: KindMinLength, N: n} }
func MaxLength(n int) Rule { return Rule{Kind: KindMaxLength, N: n} }
func Numeric() Rule        { return Rule{Kind: KindNumeric} }

// ParseRule converte a forma textual ("required", "email", "min:2", "max:100", "number").
func ParseRule(s string) (Rule, error) {
	name, param, _ := strings.Cut(s, ":")
	switch name {
	case "required":
		return Required(), nil
	case "email":
		return Email(), nil
	case "number":
		return Numeric(), nil
	case "min", "max":
		n, err := strconv.Atoi(param)
		if err != nil {
			return Rule{}, fmt.Errorf("rule %q: invalid length %q", s, param)
		}
		if name == "min" {
			return MinLength(n), nil
		}
		return MaxLength(n), nil
	}
	return Rule{}, fmt.Errorf("unknown rule %q", s)
}

// MustParseRules é ParseRule para listas fixas no código.
func MustParseRules(defs ...string) []Rule {
	rules := make([]Rule, 0, len(defs))
	for _, s := range defs {
		r, err := ParseRule(s)
		if err != nil {
			panic(err)
		}
		rules = append(rules, r)
	}
	return rules
}

type Validator struct {
	errors []apperr.FieldError
}

func New() *Validator {
	return &Validator{}
}

// Validate avalia rules contra value e devolve o próprio validator para encadear.
func (v *Validator) Validate(field string, value any, rules ...Rule) *Validator {
	present := truthy(value)
	text := stringify(value)

	for _, r := range rules {
		switch r.Kind {
		case KindRequired:
			if !present || strings.TrimSpace(text) == "" {
				v.add(field, "%s is required", field)
			}
		case KindEmail:
			if present && !emailRe.MatchString(text) {
				v.add(field, "%s must be a valid email", field)
			}
		case KindMinLength:
			if present && utf8.RuneCountInString(text) < r.N {
				v.add(field, "%s must be at least %d characters", field, r.N)
			}
		case KindMaxLength:
			if present && utf8.RuneCountInString(text) > r.N {
				v.add(field, "%s must not exceed %d characters", field, r.N)
			}
		case KindNumeric:
			if present && !numeric(value, text) {
				v.add(field, "%s must be a number", field)
			}
		}
	}
	return v
}

func (v *Validator) add(field, format string, args ...any) {
	v.errors = append(v.errors, apperr.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *Validator) HasErrors() bool { return len(v.errors) > 0 }

func (v *Validator) Errors() []apperr.FieldError {
	out := make([]apperr.FieldError, len(v.errors))
	copy(out, v.errors)
	return out
}

func (v *Validator) Clear() { v.errors = nil }

// Err devolve um *apperr.ValidationError quando há violações, senão nil.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return &apperr.ValidationError{Fields: v.Errors()}
}

// truthy segue a noção de "valor presente": nil, zero, false e string vazia não contam.
func truthy(value any) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Slice, reflect.Map:
		return !rv.IsNil()
	}
	return !rv.IsZero()
}

func stringify(value any) string {
	rv := reflect.ValueOf(value)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return ""
	}
	return fmt.Sprint(rv.Interface())
}

func numeric(value any, text string) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return true
	}
	// ParseFloat aceita grafias que não são números decimais: "NaN", "inf", "1_000"
	if strings.Contains(text, "_") {
		return false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) {
		return false
	}
	if math.IsInf(f, 0) {
		return strings.TrimLeft(text, "+-") == "Infinity"
	}
	return true
}
