package model

import "time"

// Order statuses.  `confirmed` is the only entry state, written together
// with the order row itself.  Transitions between the six states are not
// otherwise restricted: staff may move an order from any state to any
// other, and delivered is not terminal.
const (
	OrderStatusConfirmed      = "confirmed"
	OrderStatusQueued         = "queued"
	OrderStatusPrinting       = "printing"
	OrderStatusFinished       = "finished"
	OrderStatusReadyForPickup = "ready_for_pickup"
	OrderStatusDelivered      = "delivered"
)

var orderStatuses = map[string]bool{
	OrderStatusConfirmed:      true,
	OrderStatusQueued:         true,
	OrderStatusPrinting:       true,
	OrderStatusFinished:       true,
	OrderStatusReadyForPickup: true,
	OrderStatusDelivered:      true,
}

// ValidOrderStatus reports whether s is one of the six known order
// status labels.
func ValidOrderStatus(s string) bool { return orderStatuses[s] }

// Order is an accepted quote in production, tracked through a fixed set
// of states.  Each order references exactly one quote and carries an
// unguessable tracking token; possession of the token is the only
// credential needed to view the order through the public tracking view.
//
// Fields:
//  ID                – primary key identifier.
//  OrderNumber       – unique human readable number (PED-<year>-<3 digits>).
//  QuoteID           – originating quote.
//  Status            – one of the six order statuses above.
//  EstimatedDelivery – creation date plus seven days.
//  TrackingToken     – unique opaque token used in the public tracking URL.
//  CreatedAt         – timestamp of creation.
//  UpdatedAt         – timestamp of last status change.
type Order struct {
	ID                uint64    // orders.id
	OrderNumber       string    // orders.order_number
	QuoteID           uint64    // orders.quote_id
	Status            string    // orders.status
	EstimatedDelivery time.Time // orders.estimated_delivery
	TrackingToken     string    // orders.tracking_token
	CreatedAt         time.Time // orders.created_at
	UpdatedAt         time.Time // orders.updated_at
}

// StatusHistoryEntry records one status an order has held.  Rows are
// append-only: one entry is written atomically with order creation and
// one per subsequent transition, and none are ever edited or removed.
//
// Fields:
//  ID          – primary key identifier.
//  OrderID     – order the entry belongs to.
//  Status      – status the order entered.
//  Description – optional staff note for the transition.
//  CreatedAt   – when the status was recorded; entries are displayed
//                oldest first.
type StatusHistoryEntry struct {
	ID          uint64    // status_history.id
	OrderID     uint64    // status_history.order_id
	Status      string    // status_history.status
	Description *string   // status_history.description (nullable)
	CreatedAt   time.Time // status_history.created_at
}
