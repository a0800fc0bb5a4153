package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/investify-receipts/internal/application/service"
	"github.com/sangkips/investify-receipts/internal/config"
	"github.com/sangkips/investify-receipts/internal/domain/entity"
	"github.com/sangkips/investify-receipts/internal/presentation/http/handler"
	"github.com/sangkips/investify-receipts/internal/printing"
	"github.com/sangkips/investify-receipts/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memProfileRepo struct {
	mu      sync.Mutex
	profile *entity.StoreProfile
}

func (r *memProfileRepo) Get(ctx context.Context) (*entity.StoreProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profile, nil
}

func (r *memProfileRepo) Create(ctx context.Context, p *entity.StoreProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profile = p
	return nil
}

func (r *memProfileRepo) Update(ctx context.Context, p *entity.StoreProfile) error {
	return r.Create(ctx, p)
}

type memIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func (r *memIdempotencyRepo) GetByKey(ctx context.Context, key, clientID string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[clientID+"|"+key], nil
}

func (r *memIdempotencyRepo) Create(ctx context.Context, k *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[k.ClientID+"|"+k.Key] = k
	return nil
}

func (r *memIdempotencyRepo) DeleteExpired(ctx context.Context) error { return nil }

type memOpener struct {
	mu   sync.Mutex
	fail bool
	jobs [][]byte
}

func (o *memOpener) Open(ctx context.Context) (printer.Target, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail {
		return nil, errors.New("device offline")
	}
	return &memTarget{o: o}, nil
}

func (o *memOpener) printed() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.jobs)
}

type memTarget struct {
	o   *memOpener
	doc []byte
}

func (t *memTarget) Load(doc []byte) error { t.doc = doc; return nil }
func (t *memTarget) Close() error          { return nil }

func (t *memTarget) Print(ctx context.Context) error {
	t.o.mu.Lock()
	defer t.o.mu.Unlock()
	t.o.jobs = append(t.o.jobs, t.doc)
	return nil
}

type testServer struct {
	router *gin.Engine
	opener *memOpener
}

func newTestServer(t *testing.T, rl config.RateLimitConfig) *testServer {
	t.Helper()
	cfg := &config.Config{
		App:       config.AppConfig{Name: "investify-receipts"},
		RateLimit: rl,
	}
	opener := &memOpener{}
	profiles := &memProfileRepo{}

	dispatcher := printing.NewDispatcher(nil, opener, nil, printing.Config{
		MaxAttempts: 2,
		RetryDelay:  time.Millisecond,
	})
	printerService := service.NewPrinterService(dispatcher, nil, profiles, nil, "none", "network")

	router := Setup(&Handlers{
		Printer:      handler.NewPrinterHandler(printerService),
		StoreProfile: handler.NewStoreProfileHandler(service.NewStoreProfileService(profiles)),
	}, &Deps{
		Cfg:             cfg,
		IdempotencyRepo: &memIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}},
	})
	return &testServer{router: router, opener: opener}
}

func (s *testServer) do(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func saleBody(number string) map[string]interface{} {
	return map[string]interface{}{
		"receipt_type": "sale",
		"created_at":   time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC).UnixNano(),
		"items": []map[string]interface{}{
			{"quantity": 2, "description": "Coffee", "unit_price": "1.80", "total": "3.60"},
		},
		"subtotal": "3.60",
		"total":    "3.60",
		"sale": map[string]interface{}{
			"order_number": number,
			"tax_buckets":  []map[string]interface{}{{"rate": 10, "base": "3.27", "amount": "0.33"}},
		},
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})

	w := s.do(http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestPrintReceipt_Success(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})

	w := s.do(http.MethodPost, "/api/v1/printer/receipt", saleBody("S-1"), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "success", env.Data["status"])
	assert.Equal(t, []interface{}{"printing", "success"}, env.Data["statuses"])
	assert.Equal(t, "fallback", env.Data["path"])
	assert.Equal(t, "S-1", env.Data["number"])
	assert.Equal(t, 1, s.opener.printed())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPrintReceipt_DeviceFailure(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	s.opener.fail = true

	w := s.do(http.MethodPost, "/api/v1/printer/receipt", saleBody("S-2"), nil)

	require.Equal(t, http.StatusBadGateway, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "error", env.Data["status"])
	assert.Equal(t, "fallback_open_failed", env.Data["reason"])
	assert.EqualValues(t, 2, env.Data["attempts"])
	failures, ok := env.Data["failures"].([]interface{})
	require.True(t, ok)
	assert.Len(t, failures, 2)
}

func TestPrintReceipt_InvalidBody(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})

	body := saleBody("S-3")
	body["items"] = []map[string]interface{}{}
	w := s.do(http.MethodPost, "/api/v1/printer/receipt", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = saleBody("S-3")
	body["receipt_type"] = "return"
	w = s.do(http.MethodPost, "/api/v1/printer/receipt", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Zero(t, s.opener.printed())
}

func TestPrintReceipt_IdempotentReplay(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	headers := map[string]string{"Idempotency-Key": "abc-1", "X-Terminal-ID": "till-1"}

	first := s.do(http.MethodPost, "/api/v1/printer/receipt", saleBody("S-4"), headers)
	second := s.do(http.MethodPost, "/api/v1/printer/receipt", saleBody("S-4"), headers)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, s.opener.printed())

	// another terminal with the same key is a different request
	other := s.do(http.MethodPost, "/api/v1/printer/receipt", saleBody("S-4"),
		map[string]string{"Idempotency-Key": "abc-1", "X-Terminal-ID": "till-2"})
	require.Equal(t, http.StatusOK, other.Code)
	assert.Equal(t, 2, s.opener.printed())
}

func TestPrintReceipt_FailedPrintIsNotReplayed(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	headers := map[string]string{"Idempotency-Key": "retry-me"}

	s.opener.fail = true
	w := s.do(http.MethodPost, "/api/v1/printer/receipt", saleBody("S-5"), headers)
	require.Equal(t, http.StatusBadGateway, w.Code)

	s.opener.fail = false
	w = s.do(http.MethodPost, "/api/v1/printer/receipt", saleBody("S-5"), headers)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 1, s.opener.printed())
}

func TestPreviewReceipt(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})

	w := s.do(http.MethodPost, "/api/v1/printer/preview", saleBody("S-6"), nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	text, _ := env.Data["text"].(string)
	assert.Contains(t, text, "SIMPLIFIED INVOICE")
	assert.Contains(t, text, "COFFEE")
	assert.NotEmpty(t, env.Data["escpos"])
	assert.Zero(t, s.opener.printed())
}

func TestStoreProfile_UpdateAppliesToReceipts(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})

	w := s.do(http.MethodGet, "/api/v1/store-profile", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w).Data["configured"])

	w = s.do(http.MethodPut, "/api/v1/store-profile", map[string]string{"name": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/api/v1/store-profile", map[string]string{"name": "Harbour Café", "phone": "555 0199"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/printer/preview", saleBody("S-7"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	text, _ := decode(t, w).Data["text"].(string)
	assert.Contains(t, text, "HARBOUR CAFÉ")
	assert.Contains(t, text, "TEL: 555 0199")
}

func TestPrinterStatus(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})

	w := s.do(http.MethodGet, "/api/v1/printer/status", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, false, env.Data["configured"])
	assert.Equal(t, "network", env.Data["fallback_type"])
}

func TestTestPrint_RateLimited(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{Requests: 1, Duration: 60})

	first := s.do(http.MethodPost, "/api/v1/printer/test", nil, nil)
	second := s.do(http.MethodPost, "/api/v1/printer/test", nil, nil)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, 1, s.opener.printed())
}
