package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printforge/print-shop-service/internal/model"
	"github.com/printforge/print-shop-service/internal/repository"
)

// fakeQuoteStore is an in-memory QuoteStore.  failCreates makes the
// first N Create calls fail with ErrDuplicate to exercise the re-mint
// loop.
type fakeQuoteStore struct {
	quotes      map[uint64]model.Quote
	nextID      uint64
	failCreates int
}

func newFakeQuoteStore() *fakeQuoteStore {
	return &fakeQuoteStore{quotes: make(map[uint64]model.Quote), nextID: 1}
}

func (s *fakeQuoteStore) Create(ctx context.Context, q *model.Quote) error {
	if s.failCreates > 0 {
		s.failCreates--
		return repository.ErrDuplicate
	}
	q.ID = s.nextID
	q.CreatedAt = time.Now().UTC()
	q.UpdatedAt = q.CreatedAt
	s.nextID++
	s.quotes[q.ID] = *q
	return nil
}

func (s *fakeQuoteStore) GetByID(ctx context.Context, id uint64) (model.Quote, error) {
	q, ok := s.quotes[id]
	if !ok {
		return model.Quote{}, repository.ErrQuoteNotFound
	}
	return q, nil
}

func (s *fakeQuoteStore) List(ctx context.Context, status string) ([]model.Quote, error) {
	var out []model.Quote
	for _, q := range s.quotes {
		if status == "" || q.Status == status {
			out = append(out, q)
		}
	}
	return out, nil
}

// fakeOrderStore is an in-memory OrderStore that mirrors the atomic
// units of the real repository: creating an order writes the order, its
// initial history entry and flips the quote to accepted in one step.
// Like the real table's unique quote_id index, a second order for the
// same quote is rejected with ErrDuplicate.
type fakeOrderStore struct {
	quotes      *fakeQuoteStore
	orders      map[uint64]model.Order
	history     map[uint64][]model.StatusHistoryEntry
	nextID      uint64
	failCreates int
}

func newFakeOrderStore(quotes *fakeQuoteStore) *fakeOrderStore {
	return &fakeOrderStore{
		quotes:  quotes,
		orders:  make(map[uint64]model.Order),
		history: make(map[uint64][]model.StatusHistoryEntry),
		nextID:  1,
	}
}

func (s *fakeOrderStore) CreateWithInitialHistory(ctx context.Context, o *model.Order, description string) error {
	if s.failCreates > 0 {
		s.failCreates--
		return repository.ErrDuplicate
	}
	for _, existing := range s.orders {
		if existing.QuoteID == o.QuoteID {
			return repository.ErrDuplicate
		}
	}
	o.ID = s.nextID
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	s.nextID++
	s.orders[o.ID] = *o
	s.history[o.ID] = append(s.history[o.ID], model.StatusHistoryEntry{
		ID:          uint64(len(s.history[o.ID]) + 1),
		OrderID:     o.ID,
		Status:      o.Status,
		Description: &description,
		CreatedAt:   o.CreatedAt,
	})
	q := s.quotes.quotes[o.QuoteID]
	q.Status = model.QuoteStatusAccepted
	s.quotes.quotes[o.QuoteID] = q
	return nil
}

func (s *fakeOrderStore) UpdateStatus(ctx context.Context, orderID uint64, status, description string) error {
	o, ok := s.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	s.orders[orderID] = o
	var desc *string
	if description != "" {
		desc = &description
	}
	s.history[orderID] = append(s.history[orderID], model.StatusHistoryEntry{
		ID:          uint64(len(s.history[orderID]) + 1),
		OrderID:     orderID,
		Status:      status,
		Description: desc,
		CreatedAt:   o.UpdatedAt,
	})
	return nil
}

func (s *fakeOrderStore) GetByTrackingToken(ctx context.Context, token string) (model.Order, model.Quote, []model.StatusHistoryEntry, error) {
	for _, o := range s.orders {
		if o.TrackingToken == token {
			q := s.quotes.quotes[o.QuoteID]
			return o, q, s.history[o.ID], nil
		}
	}
	return model.Order{}, model.Quote{}, nil, repository.ErrOrderNotFound
}

func (s *fakeOrderStore) List(ctx context.Context, f repository.OrderListFilter) ([]repository.OrderListRow, error) {
	var out []repository.OrderListRow
	for _, o := range s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.From != nil && f.To != nil &&
			(o.EstimatedDelivery.Before(*f.From) || o.EstimatedDelivery.After(*f.To)) {
			continue
		}
		q := s.quotes.quotes[o.QuoteID]
		out = append(out, repository.OrderListRow{Order: o, CustomerName: q.CustomerName, CustomerEmail: q.CustomerEmail})
	}
	return out, nil
}

// fakeRateSource serves a fixed catalog keyed case-insensitively by
// name, like the real material repository.
type fakeRateSource struct {
	rates map[string]int64
}

func (s *fakeRateSource) GetByName(ctx context.Context, name string) (model.Material, error) {
	rate, ok := s.rates[strings.ToLower(name)]
	if !ok {
		return model.Material{}, repository.ErrMaterialNotFound
	}
	return model.Material{ID: 1, Name: name, PricePerGramCents: rate}, nil
}

func newEngine(t *testing.T) (*LifecycleEngine, *fakeQuoteStore, *fakeOrderStore) {
	t.Helper()
	quotes := newFakeQuoteStore()
	orders := newFakeOrderStore(quotes)
	rates := &fakeRateSource{rates: map[string]int64{"pla": 1500, "abs": 2000, "petg": 2500}}
	return NewLifecycleEngine(quotes, orders, rates, nil), quotes, orders
}

func validInput() QuoteInput {
	return QuoteInput{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		FileName:      "bracket.stl",
		FileRef:       "uploads/ab12cd",
		Material:      "PLA",
		Color:         "Red",
		Quantity:      2,
	}
}

func TestSubmitQuote(t *testing.T) {
	engine, quotes, _ := newEngine(t)

	q, err := engine.SubmitQuote(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, model.QuoteStatusPending, q.Status)
	assert.Equal(t, int64(150000), q.TotalCents)
	assert.Regexp(t, `^COT-\d{4}-\d{3}$`, q.Reference)
	assert.NotZero(t, q.ID)
	assert.Nil(t, q.CustomerPhone)

	stored, err := quotes.GetByID(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Reference, stored.Reference)
}

func TestSubmitQuoteUrgentSurcharge(t *testing.T) {
	engine, _, _ := newEngine(t)

	in := validInput()
	in.Urgent = true
	q, err := engine.SubmitQuote(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(195000), q.TotalCents)
}

func TestSubmitQuoteValidation(t *testing.T) {
	engine, _, _ := newEngine(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*QuoteInput)
		field  string
	}{
		{"missing name", func(in *QuoteInput) { in.CustomerName = "  " }, "customer_name"},
		{"bad email", func(in *QuoteInput) { in.CustomerEmail = "not-an-email" }, "customer_email"},
		{"zero quantity", func(in *QuoteInput) { in.Quantity = 0 }, "quantity"},
		{"negative quantity", func(in *QuoteInput) { in.Quantity = -3 }, "quantity"},
		{"missing material", func(in *QuoteInput) { in.Material = "" }, "material"},
		{"unknown material", func(in *QuoteInput) { in.Material = "Unobtainium" }, "material"},
		{"missing color", func(in *QuoteInput) { in.Color = "" }, "color"},
		{"missing file", func(in *QuoteInput) { in.FileRef = "" }, "file"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := engine.SubmitQuote(ctx, in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestSubmitQuoteRetriesOnDuplicateReference(t *testing.T) {
	engine, quotes, _ := newEngine(t)
	quotes.failCreates = 2

	q, err := engine.SubmitQuote(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotZero(t, q.ID)
}

func TestSubmitQuoteIdentifierExhausted(t *testing.T) {
	engine, quotes, _ := newEngine(t)
	quotes.failCreates = 5

	_, err := engine.SubmitQuote(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrIdentifierExhausted)
}

func TestConvertToOrder(t *testing.T) {
	engine, quotes, orders := newEngine(t)
	ctx := context.Background()

	q, err := engine.SubmitQuote(ctx, validInput())
	require.NoError(t, err)

	before := time.Now().UTC()
	o, err := engine.ConvertToOrder(ctx, q.ID)
	require.NoError(t, err)

	assert.Regexp(t, `^PED-\d{4}-\d{3}$`, o.OrderNumber)
	assert.Regexp(t, `^[0-9a-z]{26}$`, o.TrackingToken)
	assert.Equal(t, model.OrderStatusConfirmed, o.Status)
	assert.Equal(t, q.ID, o.QuoteID)

	// Estimated delivery is seven days out.
	expected := before.AddDate(0, 0, 7)
	assert.WithinDuration(t, expected, o.EstimatedDelivery, time.Minute)

	// The quote is now accepted and the initial history entry exists.
	accepted, err := quotes.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QuoteStatusAccepted, accepted.Status)

	history := orders.history[o.ID]
	require.Len(t, history, 1)
	assert.Equal(t, model.OrderStatusConfirmed, history[0].Status)
}

func TestConvertToOrderUnknownQuote(t *testing.T) {
	engine, _, _ := newEngine(t)

	_, err := engine.ConvertToOrder(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrQuoteNotFound)
}

func TestConvertToOrderTwice(t *testing.T) {
	engine, _, _ := newEngine(t)
	ctx := context.Background()

	q, err := engine.SubmitQuote(ctx, validInput())
	require.NoError(t, err)
	_, err = engine.ConvertToOrder(ctx, q.ID)
	require.NoError(t, err)

	_, err = engine.ConvertToOrder(ctx, q.ID)
	assert.ErrorIs(t, err, ErrAlreadyConverted)
}

func TestConvertToOrderRacingConversionsYieldOneOrder(t *testing.T) {
	engine, quotes, orders := newEngine(t)
	ctx := context.Background()

	q, err := engine.SubmitQuote(ctx, validInput())
	require.NoError(t, err)
	_, err = engine.ConvertToOrder(ctx, q.ID)
	require.NoError(t, err)

	// Simulate a second conversion that read the quote as pending before
	// the first one committed.  The store's unique quote constraint
	// rejects every insert, so the mint retries run out.
	racing := quotes.quotes[q.ID]
	racing.Status = model.QuoteStatusPending
	quotes.quotes[q.ID] = racing

	_, err = engine.ConvertToOrder(ctx, q.ID)
	assert.ErrorIs(t, err, ErrIdentifierExhausted)
	assert.Len(t, orders.orders, 1)
}

func TestConvertToOrderIdentifierExhausted(t *testing.T) {
	engine, _, orders := newEngine(t)
	ctx := context.Background()

	q, err := engine.SubmitQuote(ctx, validInput())
	require.NoError(t, err)

	orders.failCreates = 5
	_, err = engine.ConvertToOrder(ctx, q.ID)
	assert.ErrorIs(t, err, ErrIdentifierExhausted)
}

func TestUpdateOrderStatus(t *testing.T) {
	engine, _, orders := newEngine(t)
	ctx := context.Background()

	q, err := engine.SubmitQuote(ctx, validInput())
	require.NoError(t, err)
	o, err := engine.ConvertToOrder(ctx, q.ID)
	require.NoError(t, err)

	err = engine.UpdateOrderStatus(ctx, o.ID, model.OrderStatusPrinting, "on printer 3")
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPrinting, orders.orders[o.ID].Status)
	history := orders.history[o.ID]
	require.Len(t, history, 2)
	assert.Equal(t, model.OrderStatusPrinting, history[1].Status)
	require.NotNil(t, history[1].Description)
	assert.Equal(t, "on printer 3", *history[1].Description)
}

func TestUpdateOrderStatusUnknownLabel(t *testing.T) {
	engine, _, orders := newEngine(t)
	ctx := context.Background()

	q, err := engine.SubmitQuote(ctx, validInput())
	require.NoError(t, err)
	o, err := engine.ConvertToOrder(ctx, q.ID)
	require.NoError(t, err)

	err = engine.UpdateOrderStatus(ctx, o.ID, "teleported", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)

	// Nothing changed and no history was appended.
	assert.Equal(t, model.OrderStatusConfirmed, orders.orders[o.ID].Status)
	assert.Len(t, orders.history[o.ID], 1)
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	engine, _, _ := newEngine(t)

	err := engine.UpdateOrderStatus(context.Background(), 42, model.OrderStatusQueued, "")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestUpdateOrderStatusDeliveredNotTerminal(t *testing.T) {
	engine, _, orders := newEngine(t)
	ctx := context.Background()

	q, err := engine.SubmitQuote(ctx, validInput())
	require.NoError(t, err)
	o, err := engine.ConvertToOrder(ctx, q.ID)
	require.NoError(t, err)

	require.NoError(t, engine.UpdateOrderStatus(ctx, o.ID, model.OrderStatusDelivered, ""))
	require.NoError(t, engine.UpdateOrderStatus(ctx, o.ID, model.OrderStatusPrinting, "customer returned it"))

	assert.Equal(t, model.OrderStatusPrinting, orders.orders[o.ID].Status)
	assert.Len(t, orders.history[o.ID], 3)
}

func TestTrackByToken(t *testing.T) {
	engine, _, _ := newEngine(t)
	ctx := context.Background()

	q, err := engine.SubmitQuote(ctx, validInput())
	require.NoError(t, err)
	o, err := engine.ConvertToOrder(ctx, q.ID)
	require.NoError(t, err)
	require.NoError(t, engine.UpdateOrderStatus(ctx, o.ID, model.OrderStatusQueued, ""))

	view, err := engine.TrackByToken(ctx, o.TrackingToken)
	require.NoError(t, err)

	assert.Equal(t, o.OrderNumber, view.Order.OrderNumber)
	assert.Equal(t, q.Reference, view.Quote.Reference)
	require.Len(t, view.History, 2)
	assert.Equal(t, model.OrderStatusConfirmed, view.History[0].Status)
	assert.Equal(t, model.OrderStatusQueued, view.History[1].Status)
}

func TestTrackByTokenUnknown(t *testing.T) {
	engine, _, _ := newEngine(t)

	_, err := engine.TrackByToken(context.Background(), "nosuchtoken00000000000000x")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestListQuotesFiltersByStatus(t *testing.T) {
	engine, _, _ := newEngine(t)
	ctx := context.Background()

	first, err := engine.SubmitQuote(ctx, validInput())
	require.NoError(t, err)
	second, err := engine.SubmitQuote(ctx, validInput())
	require.NoError(t, err)
	_, err = engine.ConvertToOrder(ctx, first.ID)
	require.NoError(t, err)

	pending, err := engine.ListQuotes(ctx, model.QuoteStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	all, err := engine.ListQuotes(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListOrdersFiltersByStatus(t *testing.T) {
	engine, _, _ := newEngine(t)
	ctx := context.Background()

	q, err := engine.SubmitQuote(ctx, validInput())
	require.NoError(t, err)
	o, err := engine.ConvertToOrder(ctx, q.ID)
	require.NoError(t, err)
	require.NoError(t, engine.UpdateOrderStatus(ctx, o.ID, model.OrderStatusPrinting, ""))

	rows, err := engine.ListOrders(ctx, repository.OrderListFilter{Status: model.OrderStatusPrinting})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, o.OrderNumber, rows[0].Order.OrderNumber)
	assert.Equal(t, "Ada Lovelace", rows[0].CustomerName)
	assert.Equal(t, "ada@example.com", rows[0].CustomerEmail)

	none, err := engine.ListOrders(ctx, repository.OrderListFilter{Status: model.OrderStatusDelivered})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListOrdersFiltersByDeliveryRange(t *testing.T) {
	engine, _, _ := newEngine(t)
	ctx := context.Background()

	q, err := engine.SubmitQuote(ctx, validInput())
	require.NoError(t, err)
	o, err := engine.ConvertToOrder(ctx, q.ID)
	require.NoError(t, err)

	// The order's estimated delivery is seven days out, so a window
	// around it matches and an earlier window does not.
	from := time.Now().UTC().AddDate(0, 0, 5)
	to := time.Now().UTC().AddDate(0, 0, 9)
	rows, err := engine.ListOrders(ctx, repository.OrderListFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, o.OrderNumber, rows[0].Order.OrderNumber)

	pastFrom := time.Now().UTC().AddDate(0, 0, -9)
	pastTo := time.Now().UTC().AddDate(0, 0, -5)
	rows, err = engine.ListOrders(ctx, repository.OrderListFilter{From: &pastFrom, To: &pastTo})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
