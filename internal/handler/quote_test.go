package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printforge/print-shop-service/internal/model"
	"github.com/printforge/print-shop-service/internal/repository"
	"github.com/printforge/print-shop-service/internal/service"
)

// memQuotes and memOrders are minimal in-memory stores backing the
// engine under test.  They mirror the duplicate-key and not-found
// behavior of the real repositories.
type memQuotes struct {
	byID   map[uint64]model.Quote
	nextID uint64
}

func (s *memQuotes) Create(ctx context.Context, q *model.Quote) error {
	q.ID = s.nextID
	s.nextID++
	s.byID[q.ID] = *q
	return nil
}

func (s *memQuotes) GetByID(ctx context.Context, id uint64) (model.Quote, error) {
	q, ok := s.byID[id]
	if !ok {
		return model.Quote{}, repository.ErrQuoteNotFound
	}
	return q, nil
}

func (s *memQuotes) List(ctx context.Context, status string) ([]model.Quote, error) {
	var out []model.Quote
	for _, q := range s.byID {
		if status == "" || q.Status == status {
			out = append(out, q)
		}
	}
	return out, nil
}

type memOrders struct {
	quotes  *memQuotes
	byID    map[uint64]model.Order
	history map[uint64][]model.StatusHistoryEntry
	nextID  uint64
}

func (s *memOrders) CreateWithInitialHistory(ctx context.Context, o *model.Order, description string) error {
	o.ID = s.nextID
	s.nextID++
	s.byID[o.ID] = *o
	s.history[o.ID] = []model.StatusHistoryEntry{{OrderID: o.ID, Status: o.Status, Description: &description}}
	q := s.quotes.byID[o.QuoteID]
	q.Status = model.QuoteStatusAccepted
	s.quotes.byID[o.QuoteID] = q
	return nil
}

func (s *memOrders) UpdateStatus(ctx context.Context, orderID uint64, status, description string) error {
	o, ok := s.byID[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Status = status
	s.byID[orderID] = o
	s.history[orderID] = append(s.history[orderID], model.StatusHistoryEntry{OrderID: orderID, Status: status})
	return nil
}

func (s *memOrders) GetByTrackingToken(ctx context.Context, token string) (model.Order, model.Quote, []model.StatusHistoryEntry, error) {
	for _, o := range s.byID {
		if o.TrackingToken == token {
			return o, s.quotes.byID[o.QuoteID], s.history[o.ID], nil
		}
	}
	return model.Order{}, model.Quote{}, nil, repository.ErrOrderNotFound
}

func (s *memOrders) List(ctx context.Context, f repository.OrderListFilter) ([]repository.OrderListRow, error) {
	var out []repository.OrderListRow
	for _, o := range s.byID {
		q := s.quotes.byID[o.QuoteID]
		out = append(out, repository.OrderListRow{Order: o, CustomerName: q.CustomerName, CustomerEmail: q.CustomerEmail})
	}
	return out, nil
}

type memRates struct{}

func (memRates) GetByName(ctx context.Context, name string) (model.Material, error) {
	if strings.EqualFold(name, "PLA") {
		return model.Material{ID: 1, Name: "PLA", PricePerGramCents: 1500}, nil
	}
	return model.Material{}, repository.ErrMaterialNotFound
}

func testEngine() *service.LifecycleEngine {
	quotes := &memQuotes{byID: make(map[uint64]model.Quote), nextID: 1}
	orders := &memOrders{quotes: quotes, byID: make(map[uint64]model.Order), history: make(map[uint64][]model.StatusHistoryEntry), nextID: 1}
	return service.NewLifecycleEngine(quotes, orders, memRates{}, nil)
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const submitBody = `{
	"customer_name": "Ada Lovelace",
	"customer_email": "ada@example.com",
	"file_name": "bracket.stl",
	"file_ref": "uploads/ab12cd",
	"material": "PLA",
	"color": "Red",
	"quantity": 2
}`

func newTestServer() *echo.Echo {
	engine := testEngine()
	q := NewQuoteHandler(engine)
	o := NewOrderHandler(engine)

	e := echo.New()
	e.POST("/v1/quotes", q.Submit)
	e.GET("/v1/tracking/:token", o.Track)
	e.GET("/v1/admin/quotes", q.List)
	e.POST("/v1/admin/quotes/:id/convert", q.Convert)
	e.PUT("/v1/admin/orders/:id/status", o.UpdateStatus)
	return e
}

func TestSubmitEndpoint(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, http.MethodPost, "/v1/quotes", submitBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Regexp(t, `^COT-\d{4}-\d{3}$`, resp["reference"])
	assert.Equal(t, float64(150000), resp["total_cents"])
}

func TestSubmitEndpointValidation(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, http.MethodPost, "/v1/quotes", `{"customer_name":"Ada"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "customer_email", resp["field"])
}

func TestConvertEndpoint(t *testing.T) {
	e := newTestServer()

	require.Equal(t, http.StatusCreated, doJSON(e, http.MethodPost, "/v1/quotes", submitBody).Code)

	rec := doJSON(e, http.MethodPost, "/v1/admin/quotes/1/convert", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Regexp(t, `^PED-\d{4}-\d{3}$`, resp["order_number"])
	link, _ := resp["tracking_link"].(string)
	require.True(t, strings.HasPrefix(link, "/v1/tracking/"))

	// Converting the same quote again conflicts.
	assert.Equal(t, http.StatusConflict, doJSON(e, http.MethodPost, "/v1/admin/quotes/1/convert", "").Code)

	// The tracking link from the response resolves to the order.
	track := doJSON(e, http.MethodGet, link, "")
	assert.Equal(t, http.StatusOK, track.Code)
}

func TestTrackingPayloadShape(t *testing.T) {
	e := newTestServer()

	require.Equal(t, http.StatusCreated, doJSON(e, http.MethodPost, "/v1/quotes", submitBody).Code)
	convert := doJSON(e, http.MethodPost, "/v1/admin/quotes/1/convert", "")
	require.Equal(t, http.StatusCreated, convert.Code)

	var convResp map[string]any
	require.NoError(t, json.Unmarshal(convert.Body.Bytes(), &convResp))
	link, _ := convResp["tracking_link"].(string)

	track := doJSON(e, http.MethodGet, link, "")
	require.Equal(t, http.StatusOK, track.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(track.Body.Bytes(), &resp))

	// Every key on the wire is snake_case; Go field names never leak.
	order, ok := resp["order"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"id", "order_number", "quote_id", "status", "estimated_delivery", "tracking_token", "created_at", "updated_at"} {
		assert.Contains(t, order, key)
	}
	assert.NotContains(t, order, "OrderNumber")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, order["estimated_delivery"])

	quote, ok := resp["quote"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"reference", "customer_name", "customer_email", "file_name", "material", "color", "quantity", "urgent", "total_cents", "status", "created_at"} {
		assert.Contains(t, quote, key)
	}
	assert.NotContains(t, quote, "Reference")

	// The upload storage handle stays internal to the service.
	assert.NotContains(t, quote, "file_ref")
	assert.NotContains(t, quote, "FileRef")

	history, ok := resp["history"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, history)
	entry, ok := history[0].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, entry, "status")
	assert.Contains(t, entry, "created_at")
}

func TestConvertEndpointUnknownQuote(t *testing.T) {
	e := newTestServer()
	assert.Equal(t, http.StatusNotFound, doJSON(e, http.MethodPost, "/v1/admin/quotes/99/convert", "").Code)
}

func TestTrackEndpointUnknownToken(t *testing.T) {
	e := newTestServer()
	assert.Equal(t, http.StatusNotFound, doJSON(e, http.MethodGet, "/v1/tracking/nosuchtoken", "").Code)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	e := newTestServer()

	require.Equal(t, http.StatusCreated, doJSON(e, http.MethodPost, "/v1/quotes", submitBody).Code)
	require.Equal(t, http.StatusCreated, doJSON(e, http.MethodPost, "/v1/admin/quotes/1/convert", "").Code)

	rec := doJSON(e, http.MethodPut, "/v1/admin/orders/1/status", `{"status":"printing","description":"on printer 3"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPut, "/v1/admin/orders/1/status", `{"status":"melted"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPut, "/v1/admin/orders/7/status", `{"status":"queued"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
