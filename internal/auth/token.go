// Package auth decodifica o token de acesso da API.
//
// O token é JSON em base64, sem assinatura: identifica o chamador mas não
// prova nada. Serve apenas ao ambiente simulado desta API.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID  int64 `json:"userId"`
	IsAdmin bool  `json:"isAdmin"`
}

func GenerateToken(c Claims) string {
	b, err := json.Marshal(c)
	if err != nil {
		// Claims só tem campos escalares
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}

// VerifyToken aceita base64 padrão ou URL-safe, com ou sem padding.
func VerifyToken(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	var raw []byte
	var err error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if raw, err = enc.DecodeString(token); err == nil {
			break
		}
	}
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	var c Claims
	if err := json.Unmarshal(raw, &c); err != nil {
		return Claims{}, ErrInvalidToken
	}
	return c, nil
}
