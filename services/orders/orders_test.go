package orders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/matheusmosca/commerce-api/internal/analytics"
	"github.com/matheusmosca/commerce-api/internal/apperr"
	"github.com/matheusmosca/commerce-api/internal/auth"
	"github.com/matheusmosca/commerce-api/internal/email"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockMailer simula o serviço de e-mail
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendOrderConfirmation(ctx context.Context, to string, orderID int64) email.Result {
	args := m.Called(ctx, to, orderID)
	return args.Get(0).(email.Result)
}

// MockRecipients simula o diretório de usuários
type MockRecipients struct {
	mock.Mock
}

func (m *MockRecipients) EmailFor(userID int64) (string, bool) {
	args := m.Called(userID)
	return args.String(0), args.Bool(1)
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	uc         *OrderUseCase
	mailer     *MockMailer
	recipients *MockRecipients
	metrics    *analytics.Analytics
}

func newFixture() *fixture {
	f := &fixture{mailer: new(MockMailer), recipients: new(MockRecipients), metrics: analytics.New(nil)}
	f.uc = NewOrderUseCase(NewOrderRepository(), f.recipients, f.mailer, f.metrics, zap.NewNop())
	f.uc.now = func() time.Time { return fixedNow }
	return f
}

func TestCreateOrderComputesTotal(t *testing.T) {
	// Arrange
	f := newFixture()
	f.recipients.On("EmailFor", int64(2)).Return("bob@example.com", true)
	f.mailer.On("SendOrderConfirmation", mock.Anything, "bob@example.com", int64(2)).
		Return(email.Result{Success: true}).Once()

	// Act
	order, err := f.uc.Create(context.Background(), CreateOrderRequest{
		UserID: 2,
		Items:  []OrderItem{{ProductID: 4, Quantity: 2, Price: 29.99}},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), order.ID)
	assert.Equal(t, 59.98, order.TotalAmount)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, fixedNow, order.CreatedAt)
	f.mailer.AssertExpectations(t)

	points := f.metrics.Metric(MetricOrdersCreated, 0)
	require.Len(t, points, 1)
	assert.Equal(t, 59.98, points[0].Value)
}

func TestCreateOrderSkipsEmailForUnknownUser(t *testing.T) {
	f := newFixture()
	f.recipients.On("EmailFor", int64(77)).Return("", false)

	_, err := f.uc.Create(context.Background(), CreateOrderRequest{
		UserID: 77,
		Items:  []OrderItem{{ProductID: 1, Quantity: 1, Price: 10}},
	})

	require.NoError(t, err)
	f.mailer.AssertNotCalled(t, "SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Create(context.Background(), CreateOrderRequest{UserID: 1})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = f.uc.Create(context.Background(), CreateOrderRequest{
		UserID: 1,
		Items:  []OrderItem{{ProductID: 1, Quantity: 0, Price: -1}},
	})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestCancel(t *testing.T) {
	f := newFixture()
	f.recipients.On("EmailFor", mock.Anything).Return("", false)
	pending, err := f.uc.Create(context.Background(), CreateOrderRequest{
		UserID: 1,
		Items:  []OrderItem{{ProductID: 1, Quantity: 1, Price: 5}},
	})
	require.NoError(t, err)
	_, err = f.uc.UpdateStatus(1, StatusShipped)
	require.NoError(t, err)
	later := fixedNow.Add(time.Hour)
	f.uc.now = func() time.Time { return later }

	_, err = f.uc.Cancel(1)
	assert.ErrorIs(t, err, ErrNotCancellable)
	shipped, _ := f.uc.Get(1)
	assert.Equal(t, StatusShipped, shipped.Status)

	cancelled, err := f.uc.Cancel(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, later, cancelled.UpdatedAt)
	assert.NotEqual(t, pending.UpdatedAt, cancelled.UpdatedAt)

	_, err = f.uc.Cancel(99)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateStatusIsPermissive(t *testing.T) {
	f := newFixture()

	order, err := f.uc.UpdateStatus(1, StatusPending)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status)

	_, err = f.uc.UpdateStatus(1, Status("lost"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestRecentAndByUser(t *testing.T) {
	f := newFixture()
	f.recipients.On("EmailFor", mock.Anything).Return("", false)
	_, err := f.uc.Create(context.Background(), CreateOrderRequest{
		UserID: 2,
		Items:  []OrderItem{{ProductID: 1, Quantity: 1, Price: 5}},
	})
	require.NoError(t, err)

	assert.Len(t, f.uc.Recent(DefaultRecentDays), 1)
	assert.Len(t, f.uc.Recent(60), 2)
	assert.Len(t, f.uc.FindByUserID(1), 1)
}

func TestReturnedOrdersDoNotAliasStore(t *testing.T) {
	f := newFixture()

	order, err := f.uc.Get(1)
	require.NoError(t, err)
	order.Items[0].Quantity = 500

	again, _ := f.uc.Get(1)
	assert.Equal(t, 1, again.Items[0].Quantity)
}

func TestOrderHandlers(t *testing.T) {
	f := newFixture()
	f.recipients.On("EmailFor", mock.Anything).Return("", false)
	h := NewOrderHandler(f.uc, noop.NewTracerProvider().Tracer("test"))
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/orders", auth.Authenticate()))
	token := auth.GenerateToken(auth.Claims{UserID: 2})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodPost, "/api/orders", `{"items":[{"productId":4,"quantity":2,"price":29.99}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":2`)
	assert.Contains(t, w.Body.String(), `"totalAmount":59.98`)

	w = do(http.MethodPost, "/api/orders/1/cancel", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Order not found or cannot be cancelled"}`, w.Body.String())

	w = do(http.MethodPost, "/api/orders/2/cancel", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"cancelled"`)

	w = do(http.MethodPatch, "/api/orders/2/status", `{"status":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(http.MethodGet, "/api/orders?userId=2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}
