package users

import (
	"errors"
	"strings"
	"time"

	"github.com/matheusmosca/commerce-api/internal/memstore"
)

// UserRepository define as operações de armazenamento de usuários
type UserRepository interface {
	FindAll() []User
	FindByID(id int64) (User, bool)
	// Insert falha com false quando o e-mail já pertence a outro usuário
	Insert(email string, build func(id int64) User) (User, bool)
	// Update devolve ErrEmailTaken quando email não é vazio e pertence a outro usuário
	Update(id int64, email string, mutate func(*User) error) (User, bool, error)
	Delete(id int64) bool
}

// MemoryUserRepository implementa UserRepository em memória
type MemoryUserRepository struct {
	store *memstore.Store[User]
}

// NewUserRepository cria o repositório já com os usuários iniciais
func NewUserRepository(now time.Time) *MemoryUserRepository {
	store := memstore.New[User]()
	store.Seed(1, NewUser(1, "Alice", "alice@example.com", now))
	store.Seed(2, NewUser(2, "Bob", "bob@example.com", now))
	return &MemoryUserRepository{store: store}
}

func (r *MemoryUserRepository) FindAll() []User {
	return r.store.All()
}

func (r *MemoryUserRepository) FindByID(id int64) (User, bool) {
	return r.store.Get(id)
}

// sameEmail compara sem diferenciar maiúsculas
func sameEmail(email string) func(User) bool {
	return func(u User) bool { return strings.EqualFold(u.Email, email) }
}

func (r *MemoryUserRepository) Insert(email string, build func(id int64) User) (User, bool) {
	return r.store.InsertUnless(sameEmail(email), build)
}

func (r *MemoryUserRepository) Update(id int64, email string, mutate func(*User) error) (User, bool, error) {
	if email == "" {
		return r.store.Update(id, mutate)
	}
	user, ok, err := r.store.UpdateUnless(id, sameEmail(email), mutate)
	if errors.Is(err, memstore.ErrConflict) {
		return user, ok, ErrEmailTaken
	}
	return user, ok, err
}

func (r *MemoryUserRepository) Delete(id int64) bool {
	return r.store.Delete(id)
}
