package model

import "time"

// Quote statuses.  A quote starts out pending and is marked accepted
// when it is converted into an order.  Rejected exists in the schema
// for the surrounding admin tooling but no core operation sets it.
const (
	QuoteStatusPending  = "pending"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
)

// Quote is a customer's priced print request as stored in the `quotes`
// table, prior to shop acceptance.  The uploaded model file itself is
// handled by an external upload service; the quote only carries the
// original file name and an opaque storage handle.
//
// Fields:
//  ID            – primary key identifier.
//  Reference     – unique human readable reference (COT-<year>-<3 digits>).
//  CustomerName  – full name of the requester.
//  CustomerEmail – contact email, validated on submission.
//  CustomerPhone – optional contact phone.
//  FileName      – original name of the uploaded 3D model file.
//  FileRef       – opaque handle to the stored upload.
//  Material      – requested material name.
//  Color         – requested color.
//  Quantity      – number of units, always positive.
//  Urgent        – whether the 30% urgency surcharge applies.
//  Comments      – optional free-form customer comments.
//  TotalCents    – computed total price in currency minor units.
//  Status        – pending, accepted or rejected.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type Quote struct {
	ID            uint64    // quotes.id
	Reference     string    // quotes.reference
	CustomerName  string    // quotes.customer_name
	CustomerEmail string    // quotes.customer_email
	CustomerPhone *string   // quotes.customer_phone (nullable)
	FileName      string    // quotes.file_name
	FileRef       string    // quotes.file_ref
	Material      string    // quotes.material
	Color         string    // quotes.color
	Quantity      int       // quotes.quantity
	Urgent        bool      // quotes.urgent
	Comments      *string   // quotes.comments (nullable)
	TotalCents    int64     // quotes.total_cents
	Status        string    // quotes.status
	CreatedAt     time.Time // quotes.created_at
	UpdatedAt     time.Time // quotes.updated_at
}
