// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used by the publisher and the notification consumer.
// order.confirmed and order.status_changed are consumed by external
// collaborators (email delivery, PDF rendering); only quote.created is
// consumed in-process for the notification log.
const (
	QuoteCreatedQueue       = "quote.created"
	OrderConfirmedQueue     = "order.confirmed"
	OrderStatusChangedQueue = "order.status_changed"
)

// QuoteCreatedEvent is published when a customer submission has been
// persisted.  It carries everything the email collaborator needs to
// send the quote confirmation without querying the primary database.
type QuoteCreatedEvent struct {
	QuoteID       uint64 `json:"quote_id"`
	Reference     string `json:"reference"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Material      string `json:"material"`
	Color         string `json:"color"`
	Quantity      int    `json:"quantity"`
	Urgent        bool   `json:"urgent"`
	TotalCents    int64  `json:"total_cents"`
	CreatedAt     string `json:"created_at"`
}

// OrderConfirmedEvent is published when a quote has been converted into
// an order.  The tracking token is included so the notification
// collaborator can build the private tracking link for the customer.
type OrderConfirmedEvent struct {
	OrderID           uint64 `json:"order_id"`
	OrderNumber       string `json:"order_number"`
	QuoteReference    string `json:"quote_reference"`
	CustomerName      string `json:"customer_name"`
	CustomerEmail     string `json:"customer_email"`
	TrackingToken     string `json:"tracking_token"`
	EstimatedDelivery string `json:"estimated_delivery"`
	ConfirmedAt       string `json:"confirmed_at"`
}

// OrderStatusChangedEvent is published after every staff status
// transition, mirroring the history entry appended with it.
type OrderStatusChangedEvent struct {
	OrderID     uint64 `json:"order_id"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	ChangedAt   string `json:"changed_at"`
}
