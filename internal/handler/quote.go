package handler

import (
	"errors"   // errors.Is comparisons against engine sentinels
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/printforge/print-shop-service/internal/repository"
	"github.com/printforge/print-shop-service/internal/service"
)

// QuoteHandler exposes the quote side of the lifecycle: public
// submission plus the staff review and conversion endpoints.  All
// business rules live in the engine; the handler binds input, invokes
// the engine and maps its errors onto HTTP status codes.
type QuoteHandler struct {
	Engine *service.LifecycleEngine
}

// NewQuoteHandler constructs a QuoteHandler.  The engine must be
// non-nil.
func NewQuoteHandler(engine *service.LifecycleEngine) *QuoteHandler {
	if engine == nil {
		panic("nil engine passed to NewQuoteHandler")
	}
	return &QuoteHandler{Engine: engine}
}

// submitQuoteReq mirrors the public submission body.  The file fields
// come from the upload collaborator which runs before this endpoint;
// the service never sees the file bytes.
type submitQuoteReq struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	FileName      string `json:"file_name"`
	FileRef       string `json:"file_ref"`
	Material      string `json:"material"`
	Color         string `json:"color"`
	Quantity      int    `json:"quantity"`
	Urgent        bool   `json:"urgent"`
	Comments      string `json:"comments"`
}

// Submit handles POST /v1/quotes.  It accepts a customer submission,
// prices it and returns the persisted quote with its reference and
// total.  Validation failures return 400 with the offending field.
func (h *QuoteHandler) Submit(c echo.Context) error {
	var req submitQuoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	quote, err := h.Engine.SubmitQuote(c.Request().Context(), service.QuoteInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		FileName:      req.FileName,
		FileRef:       req.FileRef,
		Material:      req.Material,
		Color:         req.Color,
		Quantity:      req.Quantity,
		Urgent:        req.Urgent,
		Comments:      req.Comments,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Reason, "field": verr.Field})
		}
		if errors.Is(err, service.ErrIdentifierExhausted) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "could not allocate a quote reference"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create quote"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"reference":   quote.Reference,
		"total_cents": quote.TotalCents,
		"quote":       newQuoteResponse(quote),
	})
}

// List handles GET /v1/admin/quotes.  It returns quotes for staff
// review, filtered by the optional ?status= query parameter
// (default pending; "all" lifts the filter).
func (h *QuoteHandler) List(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		status = "pending"
	}
	if status == "all" {
		status = ""
	}
	quotes, err := h.Engine.ListQuotes(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load quotes"})
	}
	items := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		items = append(items, newQuoteResponse(q))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Convert handles POST /v1/admin/quotes/:id/convert.  It converts a
// pending quote into an order and returns the order number plus the
// private tracking link for the customer.  Converting a quote twice
// returns 409.
func (h *QuoteHandler) Convert(c echo.Context) error {
	quoteID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || quoteID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid quote id"})
	}
	order, err := h.Engine.ConvertToOrder(c.Request().Context(), quoteID)
	if err != nil {
		if errors.Is(err, repository.ErrQuoteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "quote not found"})
		}
		if errors.Is(err, service.ErrAlreadyConverted) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "quote already converted"})
		}
		if errors.Is(err, service.ErrIdentifierExhausted) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "could not allocate an order number"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"order_number":  order.OrderNumber,
		"tracking_link": "/v1/tracking/" + order.TrackingToken,
		"order":         newOrderResponse(order),
	})
}
