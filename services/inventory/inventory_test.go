package inventory

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/matheusmosca/commerce-api/internal/apperr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T, items ...CreateInventoryRequest) *InventoryUseCase {
	t.Helper()
	uc := NewInventoryUseCase(NewInventoryRepository(), zap.NewNop())
	uc.now = func() time.Time { return fixedNow }
	for _, it := range items {
		_, err := uc.Create(it)
		require.NoError(t, err)
	}
	return uc
}

func TestReserveRespectsAvailableQuantity(t *testing.T) {
	// Arrange
	uc := newUseCase(t, CreateInventoryRequest{ProductID: 1, Quantity: 10, Location: "A1"})

	// Act
	first, err := uc.Reserve(1, 7)
	require.NoError(t, err)
	_, err = uc.Reserve(1, 5)

	// Assert
	assert.Equal(t, 7, first.Reserved)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.ErrorIs(t, err, apperr.ErrRuleViolation)
	item, getErr := uc.GetByProductID(1)
	require.NoError(t, getErr)
	assert.Equal(t, 7, item.Reserved)
}

func TestReserveValidation(t *testing.T) {
	uc := newUseCase(t, CreateInventoryRequest{ProductID: 1, Quantity: 10})

	_, err := uc.Reserve(1, 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = uc.Reserve(42, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestReleaseReservation(t *testing.T) {
	uc := newUseCase(t, CreateInventoryRequest{ProductID: 1, Quantity: 10})
	_, err := uc.Reserve(1, 4)
	require.NoError(t, err)

	_, err = uc.ReleaseReservation(1, 5)
	assert.ErrorIs(t, err, ErrInsufficientReserved)

	item, err := uc.ReleaseReservation(1, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Reserved)
}

func TestConcurrentReservationsNeverOversell(t *testing.T) {
	uc := newUseCase(t, CreateInventoryRequest{ProductID: 1, Quantity: 50})

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.Reserve(1, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	item, err := uc.GetByProductID(1)
	require.NoError(t, err)
	assert.Equal(t, 50, succeeded)
	assert.Equal(t, 50, item.Reserved)
}

func TestCreateRejectsDuplicateProduct(t *testing.T) {
	uc := newUseCase(t, CreateInventoryRequest{ProductID: 1, Quantity: 10})

	_, err := uc.Create(CreateInventoryRequest{ProductID: 1, Quantity: 3})

	assert.ErrorIs(t, err, ErrAlreadyTracked)
	item, err := uc.GetBySKU("SKU-1")
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)
}

func TestUpdateStockRestampsLastRestocked(t *testing.T) {
	uc := newUseCase(t, CreateInventoryRequest{ProductID: 1, Quantity: 10, Location: "A1"})
	later := fixedNow.Add(time.Hour)
	uc.now = func() time.Time { return later }

	location := "B2"
	item, err := uc.UpdateStock(1, UpdateInventoryRequest{Location: &location})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, item.LastRestocked)

	qty := 30
	item, err = uc.UpdateStock(1, UpdateInventoryRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, later, item.LastRestocked)
	assert.Equal(t, "B2", item.Location)
}

func TestLowStockAndWarehouses(t *testing.T) {
	uc := newUseCase(t,
		CreateInventoryRequest{ProductID: 1, Quantity: 8},
		CreateInventoryRequest{ProductID: 2, Quantity: 30},
	)
	_, err := uc.Reserve(2, 25)
	require.NoError(t, err)

	low := uc.LowStock(DefaultLowStockThreshold)

	assert.Len(t, low, 2)
	assert.Len(t, uc.LowStock(4), 0)
	assert.Equal(t, 6500, uc.WarehouseCapacity(1))
	assert.Equal(t, 5900, uc.WarehouseCapacity(2))
	assert.Equal(t, 0, uc.WarehouseCapacity(9))
	assert.Len(t, uc.Warehouses(), 2)
}

func TestInventoryHandlers(t *testing.T) {
	h := NewInventoryHandler(newUseCase(t), noop.NewTracerProvider().Tracer("test"))
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/inventory"))

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodPost, "/api/inventory", `{"productId":3,"quantity":10,"location":"NY"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(http.MethodPost, "/api/inventory/reserve", `{"productId":3,"quantity":7}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Stock reserved successfully")

	w = do(http.MethodPost, "/api/inventory/reserve", `{"productId":3,"quantity":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Insufficient stock"`)

	w = do(http.MethodGet, "/api/inventory/product/3", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reserved":7`)

	w = do(http.MethodGet, "/api/inventory/product/4", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(http.MethodGet, "/api/inventory/low-stock?threshold=3", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"productId":3`)

	w = do(http.MethodGet, "/api/inventory/warehouses/1/capacity", "")
	assert.JSONEq(t, `{"warehouseId":1,"availableCapacity":6500}`, w.Body.String())
}
