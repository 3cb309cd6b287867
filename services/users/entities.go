// Package users mantém o cadastro de usuários da loja.
package users

import (
	"time"
)

// User representa um usuário cadastrado
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateUserRequest é o corpo de POST /api/users
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateUserRequest é o corpo de PATCH /api/users/:id; campos nil ficam como estão
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// NewUser cria uma nova instância de User
func NewUser(id int64, name, email string, now time.Time) User {
	return User{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
