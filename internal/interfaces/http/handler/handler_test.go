package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/smarthomes/backend/internal/application/cart"
	catalogapp "github.com/smarthomes/backend/internal/application/catalog"
	customerapp "github.com/smarthomes/backend/internal/application/customer"
	identityapp "github.com/smarthomes/backend/internal/application/identity"
	orderapp "github.com/smarthomes/backend/internal/application/order"
	"github.com/smarthomes/backend/internal/domain/order"
	"github.com/smarthomes/backend/internal/domain/shared"
	"github.com/smarthomes/backend/internal/infrastructure/cache"
	"github.com/smarthomes/backend/internal/infrastructure/event"
	"github.com/smarthomes/backend/internal/infrastructure/persistence"
	"github.com/smarthomes/backend/internal/infrastructure/worker"
	"github.com/smarthomes/backend/internal/interfaces/http/dto"
	"github.com/smarthomes/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// inlineSubmitter saves carts on the request goroutine so tests can read
// the stored document right after a response
type inlineSubmitter struct{}

func (inlineSubmitter) Submit(ctx context.Context, task worker.Task) error {
	return task(ctx)
}

type testAPI struct {
	engine *gin.Engine
	store  *persistence.FileStore
	next   atomic.Int64
}

// newTestAPI wires the real services over a file store in a temp dir.
// The catalog is seeded with the default products.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store, err := persistence.NewFileStore(t.TempDir())
	require.NoError(t, err)
	bus := event.NewInMemoryEventBus(zap.NewNop())

	catalogRepo, err := persistence.NewCatalogRepository(store, true)
	require.NoError(t, err)
	products := catalogapp.NewProductService(catalogRepo)
	carts := cartapp.NewService(persistence.NewCartRepository(store, nil), products, inlineSubmitter{}, zap.NewNop())

	api := &testAPI{store: store}
	api.next.Store(100000)
	confirmations := order.ConfirmationFunc(func() (string, error) {
		return strconv.FormatInt(api.next.Add(1), 10), nil
	})
	orders := orderapp.NewService(
		persistence.NewOrderRepository(store, persistence.WithPublisher(bus)),
		carts,
		confirmations,
		zap.NewNop(),
		orderapp.Options{
			PickupLeadDays: 14,
			MintAttempts:   4,
			Idempotency:    shared.IdempotencyConfig{Enabled: true, TTL: time.Hour},
		},
	)
	idempotency := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idempotency.Close() })
	orders.SetIdempotencyStore(idempotency)

	customers := customerapp.NewCustomerService(
		persistence.NewCustomerRepository(store, persistence.WithPublisher(bus)),
		zap.NewNop(),
	)
	bus.Subscribe(orderapp.NewCustomerDeletedHandler(orders, zap.NewNop()))
	users := identityapp.NewUserService(persistence.NewUserRepository(store), zap.NewNop())

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", NewSystemHandler(store).Health)
	group := engine.Group("/api", middleware.CartSession())
	NewProductHandler(products).RegisterRoutes(group)
	NewCartHandler(carts).RegisterRoutes(group)
	NewOrderHandler(orders).RegisterRoutes(group)
	NewCustomerHandler(customers).RegisterRoutes(group)
	NewUserHandler(users).RegisterRoutes(group)

	api.engine = engine
	return api
}

// do sends a request. body is JSON encoded unless it is a string.
// headers are name/value pairs.
func (a *testAPI) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	resp := decode[dto.ErrorResponse](t, w)
	require.NotNil(t, resp.Error, w.Body.String())
	return resp
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[dto.MessageResponse](t, w).Message
}
