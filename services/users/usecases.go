package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matheusmosca/commerce-api/internal/apperr"
	"github.com/matheusmosca/commerce-api/internal/email"
	"github.com/matheusmosca/commerce-api/internal/validator"
)

var ErrEmailTaken = fmt.Errorf("email already registered: %w", apperr.ErrRuleViolation)

// Mailer é o que o cadastro precisa do serviço de e-mail
type Mailer interface {
	SendWelcome(ctx context.Context, to, name string) email.Result
	SendPasswordReset(ctx context.Context, to, resetToken string) email.Result
}

// UserUseCase contém a lógica de negócio de usuários
type UserUseCase struct {
	repository UserRepository
	mailer     Mailer
	log        *zap.Logger
	now        func() time.Time
}

// NewUserUseCase cria uma nova instância de UserUseCase
func NewUserUseCase(repository UserRepository, mailer Mailer, log *zap.Logger) *UserUseCase {
	return &UserUseCase{
		repository: repository,
		mailer:     mailer,
		log:        log.Named("users"),
		now:        time.Now,
	}
}

// List devolve todos os usuários, ou só aqueles cujo nome contém query
func (uc *UserUseCase) List(query string) []User {
	all := uc.repository.FindAll()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}

	out := make([]User, 0, len(all))
	for _, u := range all {
		if strings.Contains(strings.ToLower(u.Name), query) {
			out = append(out, u)
		}
	}
	return out
}

func (uc *UserUseCase) Get(id int64) (User, error) {
	u, ok := uc.repository.FindByID(id)
	if !ok {
		return User{}, apperr.NotFound("user", id)
	}
	return u, nil
}

// EmailFor devolve o e-mail do usuário, se ele existir
func (uc *UserUseCase) EmailFor(userID int64) (string, bool) {
	u, ok := uc.repository.FindByID(userID)
	return u.Email, ok
}

// Create valida o corpo, grava o usuário e envia o e-mail de boas-vindas
func (uc *UserUseCase) Create(ctx context.Context, req CreateUserRequest) (User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := validateName(validator.New(), req.Name).
		Validate("email", req.Email, validator.Required(), validator.Email()).
		Err(); err != nil {
		return User{}, err
	}

	now := uc.now()
	user, ok := uc.repository.Insert(req.Email, func(id int64) User {
		return NewUser(id, req.Name, req.Email, now)
	})
	if !ok {
		return User{}, ErrEmailTaken
	}

	uc.log.Info("✅ user created", zap.Int64("user_id", user.ID))

	if res := uc.mailer.SendWelcome(ctx, user.Email, user.Name); !res.Success {
		uc.log.Warn("⚠️ welcome email not sent", zap.Int64("user_id", user.ID), zap.String("error", res.Error))
	}

	return user, nil
}

// Update aplica os campos presentes em req
func (uc *UserUseCase) Update(id int64, req UpdateUserRequest) (User, error) {
	v := validator.New()
	if req.Name != nil {
		*req.Name = strings.TrimSpace(*req.Name)
		validateName(v, *req.Name)
	}
	if req.Email != nil {
		*req.Email = strings.TrimSpace(*req.Email)
		v.Validate("email", *req.Email, validator.Required(), validator.Email())
	}
	if err := v.Err(); err != nil {
		return User{}, err
	}

	var newEmail string
	if req.Email != nil {
		newEmail = *req.Email
	}

	user, ok, err := uc.repository.Update(id, newEmail, func(u *User) error {
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Email != nil {
			u.Email = *req.Email
		}
		u.UpdatedAt = uc.now()
		return nil
	})
	if !ok {
		return User{}, apperr.NotFound("user", id)
	}
	if err != nil {
		return User{}, fmt.Errorf("update user %d: %w", id, err)
	}
	return user, nil
}

// RequestPasswordReset envia ao usuário um link com um token de uso único
func (uc *UserUseCase) RequestPasswordReset(ctx context.Context, id int64) error {
	user, ok := uc.repository.FindByID(id)
	if !ok {
		return apperr.NotFound("user", id)
	}

	res := uc.mailer.SendPasswordReset(ctx, user.Email, uuid.NewString())
	if !res.Success {
		return fmt.Errorf("password reset for user %d: %s", id, res.Error)
	}
	uc.log.Info("✅ password reset sent", zap.Int64("user_id", id), zap.String("message_id", res.MessageID))
	return nil
}

func (uc *UserUseCase) Delete(id int64) error {
	if !uc.repository.Delete(id) {
		return apperr.NotFound("user", id)
	}
	uc.log.Info("🗑️ user deleted", zap.Int64("user_id", id))
	return nil
}

func validateName(v *validator.Validator, name string) *validator.Validator {
	return v.Validate("name", name, validator.Required(), validator.MinLength(2), validator.MaxLength(100))
}
