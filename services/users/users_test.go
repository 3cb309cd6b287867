package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/matheusmosca/commerce-api/internal/apperr"
	"github.com/matheusmosca/commerce-api/internal/email"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockMailer simula o serviço de e-mail
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendWelcome(ctx context.Context, to, name string) email.Result {
	args := m.Called(ctx, to, name)
	return args.Get(0).(email.Result)
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, to, resetToken string) email.Result {
	args := m.Called(ctx, to, resetToken)
	return args.Get(0).(email.Result)
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newUseCase(mailer Mailer) *UserUseCase {
	uc := NewUserUseCase(NewUserRepository(fixedNow), mailer, zap.NewNop())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestCreateUser(t *testing.T) {
	// Arrange
	mailer := new(MockMailer)
	mailer.On("SendWelcome", mock.Anything, "carol@example.com", "Carol").
		Return(email.Result{Success: true, MessageID: "MSG-1"}).Once()
	uc := newUseCase(mailer)

	// Act
	user, err := uc.Create(context.Background(), CreateUserRequest{Name: " Carol ", Email: "carol@example.com"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "Carol", user.Name)
	assert.Equal(t, fixedNow, user.CreatedAt)
	mailer.AssertExpectations(t)
}

func TestCreateUserCollectsAllFieldErrors(t *testing.T) {
	uc := newUseCase(new(MockMailer))

	_, err := uc.Create(context.Background(), CreateUserRequest{Name: "A", Email: "nope"})

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []apperr.FieldError{
		{Field: "name", Message: "name must be at least 2 characters"},
		{Field: "email", Message: "email must be a valid email"},
	}, verr.Fields)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	uc := newUseCase(new(MockMailer))

	_, err := uc.Create(context.Background(), CreateUserRequest{Name: "Alice Two", Email: "ALICE@example.com"})

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, apperr.ErrRuleViolation)
}

func TestConcurrentCreateKeepsEmailUnique(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("SendWelcome", mock.Anything, mock.Anything, mock.Anything).Return(email.Result{Success: true})
	uc := newUseCase(mailer)

	var wg sync.WaitGroup
	var created atomic.Int32
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.Create(context.Background(), CreateUserRequest{Name: "Carol", Email: "carol@example.com"}); err == nil {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Len(t, uc.List("carol"), 1)
}

func TestUpdateRejectsEmailOfAnotherUser(t *testing.T) {
	uc := newUseCase(new(MockMailer))
	taken := "BOB@example.com"
	own := "alice@example.com"

	_, err := uc.Update(1, UpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)
	alice, _ := uc.Get(1)
	assert.Equal(t, "alice@example.com", alice.Email)

	_, err = uc.Update(1, UpdateUserRequest{Email: &own})
	assert.NoError(t, err)

	_, err = uc.Update(99, UpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestIDsAreNotReusedAfterDelete(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("SendWelcome", mock.Anything, mock.Anything, mock.Anything).Return(email.Result{Success: true})
	uc := newUseCase(mailer)

	require.NoError(t, uc.Delete(2))
	user, err := uc.Create(context.Background(), CreateUserRequest{Name: "Dave", Email: "dave@example.com"})

	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
}

func TestUpdateAndDeleteUser(t *testing.T) {
	uc := newUseCase(new(MockMailer))
	name := "Alicia"

	user, err := uc.Update(1, UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = uc.Update(99, UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.NoError(t, uc.Delete(1))
	assert.ErrorIs(t, uc.Delete(1), apperr.ErrNotFound)
}

func TestRequestPasswordReset(t *testing.T) {
	// Arrange
	mailer := new(MockMailer)
	mailer.On("SendPasswordReset", mock.Anything, "bob@example.com", mock.AnythingOfType("string")).
		Return(email.Result{Success: true, MessageID: "MSG-1"}).Once()
	mailer.On("SendPasswordReset", mock.Anything, "alice@example.com", mock.AnythingOfType("string")).
		Return(email.Result{Success: false, Error: "Invalid recipient email"}).Once()
	h := NewUserHandler(newUseCase(mailer), noop.NewTracerProvider().Tracer("test"))
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/users"))
	post := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		return w
	}

	// Act & Assert
	w := post("/api/users/2/password-reset")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Password reset email sent"}`, w.Body.String())

	w = post("/api/users/1/password-reset")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to send password reset email")

	w = post("/api/users/42/password-reset")
	assert.Equal(t, http.StatusNotFound, w.Code)
	mailer.AssertExpectations(t)
}

func TestListFiltersByName(t *testing.T) {
	uc := newUseCase(new(MockMailer))

	assert.Len(t, uc.List(""), 2)
	got := uc.List("BO")
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].Name)
}

func TestUserHandlers(t *testing.T) {
	// Arrange
	mailer := new(MockMailer)
	mailer.On("SendWelcome", mock.Anything, mock.Anything, mock.Anything).Return(email.Result{Success: true})
	h := NewUserHandler(newUseCase(mailer), noop.NewTracerProvider().Tracer("test"))
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/users"))

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// Act & Assert
	w := do(http.MethodGet, "/api/users/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Alice"`)

	w = do(http.MethodGet, "/api/users/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String())

	w = do(http.MethodPost, "/api/users", `{"name":"","email":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"name is required"`)

	w = do(http.MethodPost, "/api/users", `{"name":"Bob","email":"bob@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"User already exists"`)

	w = do(http.MethodPost, "/api/users", `{"name":"Erin","email":"erin@example.com"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(http.MethodGet, "/api/users?limit=2&page=2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pagination":{"page":2,"limit":2,"total":3,"totalPages":2}`)

	w = do(http.MethodDelete, "/api/users/3", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestEmailFor(t *testing.T) {
	uc := newUseCase(new(MockMailer))

	addr, ok := uc.EmailFor(2)
	assert.True(t, ok)
	assert.Equal(t, "bob@example.com", addr)

	_, ok = uc.EmailFor(50)
	assert.False(t, ok)
}
