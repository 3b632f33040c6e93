// Package service contains the lifecycle engine that drives a print
// request from quote submission through order tracking.  The engine
// holds no mutable state of its own; everything lives in the stores it
// is constructed with, which makes each call independently retryable
// and the engine trivially shareable between request handlers.
package service

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/printforge/print-shop-service/internal/model"
	"github.com/printforge/print-shop-service/internal/pricing"
	"github.com/printforge/print-shop-service/internal/repository"
	"github.com/printforge/print-shop-service/internal/utils"
)

// maxMintAttempts bounds how often a colliding reference, order number
// or tracking token is re-minted before the operation fails with
// ErrIdentifierExhausted.
const maxMintAttempts = 5

// deliveryLeadDays is the fixed lead time promised to customers.
const deliveryLeadDays = 7

// initialOrderDescription is recorded in the history entry written
// together with a new order.
const initialOrderDescription = "Order confirmed and in progress"

// QuoteStore persists quotes.  Implemented by repository.QuoteRepo; the
// engine only depends on this interface so tests can substitute an
// in-memory store.
type QuoteStore interface {
	Create(ctx context.Context, q *model.Quote) error
	GetByID(ctx context.Context, id uint64) (model.Quote, error)
	List(ctx context.Context, status string) ([]model.Quote, error)
}

// OrderStore persists orders plus their status history.  Implemented by
// repository.OrderRepo.  The two mutating calls are atomic units: an
// order is never visible without its matching history row.
type OrderStore interface {
	CreateWithInitialHistory(ctx context.Context, o *model.Order, description string) error
	UpdateStatus(ctx context.Context, orderID uint64, status, description string) error
	GetByTrackingToken(ctx context.Context, token string) (model.Order, model.Quote, []model.StatusHistoryEntry, error)
	List(ctx context.Context, f repository.OrderListFilter) ([]repository.OrderListRow, error)
}

// RateSource resolves a material's per-gram rate for pricing.  The
// material catalog is the single source of truth; the old fixed
// three-entry price table survives only as its seed data.
type RateSource interface {
	GetByName(ctx context.Context, name string) (model.Material, error)
}

// EventPublisher emits lifecycle events for external collaborators
// (email notifications, PDF rendering, analytics).  Publishing is best
// effort: a failed publish never rolls back a successful persist.
type EventPublisher interface {
	QuoteCreated(ctx context.Context, q model.Quote) error
	OrderConfirmed(ctx context.Context, o model.Order, q model.Quote) error
	OrderStatusChanged(ctx context.Context, orderID uint64, status, description string) error
}

// LifecycleEngine orchestrates quote creation, quote→order conversion
// and order state transitions.  Construct it with NewLifecycleEngine;
// the publisher may be nil, in which case events are silently skipped.
type LifecycleEngine struct {
	quotes    QuoteStore
	orders    OrderStore
	materials RateSource
	publisher EventPublisher
}

// NewLifecycleEngine constructs the engine.  The three stores must be
// non-nil; the publisher is optional.
func NewLifecycleEngine(quotes QuoteStore, orders OrderStore, materials RateSource, publisher EventPublisher) *LifecycleEngine {
	if quotes == nil || orders == nil || materials == nil {
		panic("nil store passed to NewLifecycleEngine")
	}
	return &LifecycleEngine{quotes: quotes, orders: orders, materials: materials, publisher: publisher}
}

// QuoteInput is a validated-shape quote submission.  FileName and
// FileRef come from the external upload collaborator; the engine never
// opens or inspects the stored file.
type QuoteInput struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	FileName      string
	FileRef       string
	Material      string
	Color         string
	Quantity      int
	Urgent        bool
	Comments      string
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SubmitQuote validates the submission, prices it from the material
// catalog, mints a reference and persists the quote with status
// pending.  On a reference collision it re-mints and retries up to
// maxMintAttempts times.  The returned quote is the full persisted
// record, ready for the email and PDF collaborators to consume.
func (e *LifecycleEngine) SubmitQuote(ctx context.Context, in QuoteInput) (model.Quote, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return model.Quote{}, invalid("customer_name", "required")
	}
	if !emailPattern.MatchString(in.CustomerEmail) {
		return model.Quote{}, invalid("customer_email", "malformed email address")
	}
	if in.Quantity <= 0 {
		return model.Quote{}, invalid("quantity", "must be a positive integer")
	}
	if strings.TrimSpace(in.Material) == "" {
		return model.Quote{}, invalid("material", "required")
	}
	if strings.TrimSpace(in.Color) == "" {
		return model.Quote{}, invalid("color", "required")
	}
	if strings.TrimSpace(in.FileName) == "" || strings.TrimSpace(in.FileRef) == "" {
		return model.Quote{}, invalid("file", "uploaded model file reference required")
	}

	mat, err := e.materials.GetByName(ctx, in.Material)
	if errors.Is(err, repository.ErrMaterialNotFound) {
		return model.Quote{}, invalid("material", "unknown material")
	}
	if err != nil {
		return model.Quote{}, err
	}
	total := pricing.Total(mat.PricePerGramCents, in.Quantity, in.Urgent)

	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		ref, err := utils.NewQuoteReference()
		if err != nil {
			return model.Quote{}, err
		}
		q := model.Quote{
			Reference:     ref,
			CustomerName:  strings.TrimSpace(in.CustomerName),
			CustomerEmail: strings.TrimSpace(in.CustomerEmail),
			CustomerPhone: optional(in.CustomerPhone),
			FileName:      in.FileName,
			FileRef:       in.FileRef,
			Material:      in.Material,
			Color:         in.Color,
			Quantity:      in.Quantity,
			Urgent:        in.Urgent,
			Comments:      optional(in.Comments),
			TotalCents:    total,
			Status:        model.QuoteStatusPending,
		}
		err = e.quotes.Create(ctx, &q)
		if errors.Is(err, repository.ErrDuplicate) {
			continue // collided with an existing reference, re-mint
		}
		if err != nil {
			return model.Quote{}, err
		}
		if e.publisher != nil {
			if perr := e.publisher.QuoteCreated(ctx, q); perr != nil {
				log.Printf("lifecycle: quote.created publish failed for %s: %v", q.Reference, perr)
			}
		}
		return q, nil
	}
	return model.Quote{}, ErrIdentifierExhausted
}

// ConvertToOrder turns a pending quote into an order.  It mints an
// order number and tracking token, sets the estimated delivery date
// seven days out and persists the order together with its initial
// `confirmed` history entry while marking the quote accepted, all as one
// atomic unit.  Converting a quote that is no longer pending fails with
// ErrAlreadyConverted: a quote produces at most one order.
func (e *LifecycleEngine) ConvertToOrder(ctx context.Context, quoteID uint64) (model.Order, error) {
	q, err := e.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return model.Order{}, err
	}
	if q.Status != model.QuoteStatusPending {
		return model.Order{}, ErrAlreadyConverted
	}

	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		number, err := utils.NewOrderNumber()
		if err != nil {
			return model.Order{}, err
		}
		token, err := utils.NewTrackingToken()
		if err != nil {
			return model.Order{}, err
		}
		o := model.Order{
			OrderNumber:       number,
			QuoteID:           q.ID,
			Status:            model.OrderStatusConfirmed,
			EstimatedDelivery: time.Now().UTC().AddDate(0, 0, deliveryLeadDays),
			TrackingToken:     token,
		}
		err = e.orders.CreateWithInitialHistory(ctx, &o, initialOrderDescription)
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return model.Order{}, err
		}
		if e.publisher != nil {
			if perr := e.publisher.OrderConfirmed(ctx, o, q); perr != nil {
				log.Printf("lifecycle: order.confirmed publish failed for %s: %v", o.OrderNumber, perr)
			}
		}
		return o, nil
	}
	return model.Order{}, ErrIdentifierExhausted
}

// UpdateOrderStatus moves an order to a new status and appends the
// matching history entry.  The label must be one of the six known
// statuses; transitions between them are intentionally unrestricted,
// including moving away from delivered.
func (e *LifecycleEngine) UpdateOrderStatus(ctx context.Context, orderID uint64, status, description string) error {
	if !model.ValidOrderStatus(status) {
		return invalid("status", "unknown order status")
	}
	if err := e.orders.UpdateStatus(ctx, orderID, status, description); err != nil {
		return err
	}
	if e.publisher != nil {
		if perr := e.publisher.OrderStatusChanged(ctx, orderID, status, description); perr != nil {
			log.Printf("lifecycle: order.status_changed publish failed for order %d: %v", orderID, perr)
		}
	}
	return nil
}

// TrackingView is the public tracking payload: the order, the fields of
// its originating quote and the full status history ordered oldest
// first.
type TrackingView struct {
	Order   model.Order                `json:"order"`
	Quote   model.Quote                `json:"quote"`
	History []model.StatusHistoryEntry `json:"history"`
}

// TrackByToken resolves a tracking token to its order, quote and
// ordered history.  Token possession is the only credential required.
func (e *LifecycleEngine) TrackByToken(ctx context.Context, token string) (TrackingView, error) {
	o, q, history, err := e.orders.GetByTrackingToken(ctx, token)
	if err != nil {
		return TrackingView{}, err
	}
	return TrackingView{Order: o, Quote: q, History: history}, nil
}

// ListQuotes returns quotes for the staff review screen, optionally
// filtered by status.
func (e *LifecycleEngine) ListQuotes(ctx context.Context, status string) ([]model.Quote, error) {
	return e.quotes.List(ctx, status)
}

// ListOrders returns orders joined with customer contact details for
// the staff production screen, ordered by estimated delivery ascending.
func (e *LifecycleEngine) ListOrders(ctx context.Context, f repository.OrderListFilter) ([]repository.OrderListRow, error) {
	return e.orders.List(ctx, f)
}

// optional converts an empty string to a nil pointer for nullable
// columns.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
