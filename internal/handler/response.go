package handler

import (
	"time"

	"github.com/printforge/print-shop-service/internal/model"
	"github.com/printforge/print-shop-service/internal/repository"
	"github.com/printforge/print-shop-service/internal/service"
)

// Response DTOs shared by the quote, order and material handlers.
// Models are never serialized directly: every payload is built from one
// of these tagged structs so the wire format stays snake_case and the
// public tracking view never exposes the internal upload storage
// handle.

// QuoteResponse is a quote as returned to its submitter and to staff.
type QuoteResponse struct {
	ID            uint64    `json:"id"`
	Reference     string    `json:"reference"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone *string   `json:"customer_phone,omitempty"`
	FileName      string    `json:"file_name"`
	FileRef       string    `json:"file_ref"`
	Material      string    `json:"material"`
	Color         string    `json:"color"`
	Quantity      int       `json:"quantity"`
	Urgent        bool      `json:"urgent"`
	Comments      *string   `json:"comments,omitempty"`
	TotalCents    int64     `json:"total_cents"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func newQuoteResponse(q model.Quote) QuoteResponse {
	return QuoteResponse{
		ID:            q.ID,
		Reference:     q.Reference,
		CustomerName:  q.CustomerName,
		CustomerEmail: q.CustomerEmail,
		CustomerPhone: q.CustomerPhone,
		FileName:      q.FileName,
		FileRef:       q.FileRef,
		Material:      q.Material,
		Color:         q.Color,
		Quantity:      q.Quantity,
		Urgent:        q.Urgent,
		Comments:      q.Comments,
		TotalCents:    q.TotalCents,
		Status:        q.Status,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

// TrackedQuoteResponse is the quote as shown on the public tracking
// view.  It carries only what the customer needs to recognize their
// request; the storage handle stays internal.
type TrackedQuoteResponse struct {
	Reference     string    `json:"reference"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	FileName      string    `json:"file_name"`
	Material      string    `json:"material"`
	Color         string    `json:"color"`
	Quantity      int       `json:"quantity"`
	Urgent        bool      `json:"urgent"`
	Comments      *string   `json:"comments,omitempty"`
	TotalCents    int64     `json:"total_cents"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderResponse is an order as returned to staff and on the tracking
// view.  The estimated delivery is a plain date.
type OrderResponse struct {
	ID                uint64    `json:"id"`
	OrderNumber       string    `json:"order_number"`
	QuoteID           uint64    `json:"quote_id"`
	Status            string    `json:"status"`
	EstimatedDelivery string    `json:"estimated_delivery"`
	TrackingToken     string    `json:"tracking_token"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func newOrderResponse(o model.Order) OrderResponse {
	return OrderResponse{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		QuoteID:           o.QuoteID,
		Status:            o.Status,
		EstimatedDelivery: o.EstimatedDelivery.Format("2006-01-02"),
		TrackingToken:     o.TrackingToken,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// HistoryEntryResponse is one line of an order's status history,
// displayed oldest first.
type HistoryEntryResponse struct {
	Status      string    `json:"status"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TrackingResponse is the full public tracking payload.
type TrackingResponse struct {
	Order   OrderResponse          `json:"order"`
	Quote   TrackedQuoteResponse   `json:"quote"`
	History []HistoryEntryResponse `json:"history"`
}

func newTrackingResponse(v service.TrackingView) TrackingResponse {
	history := make([]HistoryEntryResponse, 0, len(v.History))
	for _, e := range v.History {
		history = append(history, HistoryEntryResponse{
			Status:      e.Status,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	return TrackingResponse{
		Order: newOrderResponse(v.Order),
		Quote: TrackedQuoteResponse{
			Reference:     v.Quote.Reference,
			CustomerName:  v.Quote.CustomerName,
			CustomerEmail: v.Quote.CustomerEmail,
			FileName:      v.Quote.FileName,
			Material:      v.Quote.Material,
			Color:         v.Quote.Color,
			Quantity:      v.Quote.Quantity,
			Urgent:        v.Quote.Urgent,
			Comments:      v.Quote.Comments,
			TotalCents:    v.Quote.TotalCents,
			Status:        v.Quote.Status,
			CreatedAt:     v.Quote.CreatedAt,
		},
		History: history,
	}
}

// OrderListItem is one row of the staff production listing.
type OrderListItem struct {
	Order         OrderResponse `json:"order"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
}

func newOrderListItems(rows []repository.OrderListRow) []OrderListItem {
	out := make([]OrderListItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, OrderListItem{
			Order:         newOrderResponse(r.Order),
			CustomerName:  r.CustomerName,
			CustomerEmail: r.CustomerEmail,
		})
	}
	return out
}

// MaterialResponse is a catalog entry as returned by the public listing
// and the staff create endpoint.
type MaterialResponse struct {
	ID                uint64    `json:"id"`
	Name              string    `json:"name"`
	PricePerGramCents int64     `json:"price_per_gram_cents"`
	Colors            []string  `json:"colors"`
	CreatedAt         time.Time `json:"created_at"`
}

func newMaterialResponse(m model.Material) MaterialResponse {
	return MaterialResponse{
		ID:                m.ID,
		Name:              m.Name,
		PricePerGramCents: m.PricePerGramCents,
		Colors:            m.Colors,
		CreatedAt:         m.CreatedAt,
	}
}
