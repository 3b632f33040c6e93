package handler

import (
	"errors"   // errors.Is comparisons against engine sentinels
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"time"     // parsing date range filters

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/printforge/print-shop-service/internal/repository"
	"github.com/printforge/print-shop-service/internal/service"
)

// OrderHandler exposes the order side of the lifecycle: staff status
// transitions, the staff production listing and the public tracking
// view keyed solely by token.
type OrderHandler struct {
	Engine *service.LifecycleEngine
}

// NewOrderHandler constructs an OrderHandler.  The engine must be
// non-nil.
func NewOrderHandler(engine *service.LifecycleEngine) *OrderHandler {
	if engine == nil {
		panic("nil engine passed to NewOrderHandler")
	}
	return &OrderHandler{Engine: engine}
}

type updateStatusReq struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

// UpdateStatus handles PUT /v1/admin/orders/:id/status.  It moves an
// order to one of the six known statuses and appends the matching
// history entry.  Unknown labels return 400; unknown orders 404.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	err = h.Engine.UpdateOrderStatus(c.Request().Context(), orderID, req.Status, req.Description)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Reason, "field": verr.Field})
		}
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// List handles GET /v1/admin/orders.  Query parameters `from` and `to`
// (YYYY-MM-DD, both required to take effect) filter on estimated
// delivery date and `status` on the current order status.  Results are
// ordered by estimated delivery ascending and joined with the customer
// contact details.
func (h *OrderHandler) List(c echo.Context) error {
	var filter repository.OrderListFilter
	fromStr, toStr := c.QueryParam("from"), c.QueryParam("to")
	if fromStr != "" && toStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
		}
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
		}
		filter.From, filter.To = &from, &to
	}
	filter.Status = c.QueryParam("status")

	rows, err := h.Engine.ListOrders(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load orders"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": newOrderListItems(rows)})
}

// Track handles GET /v1/tracking/:token.  It is the public tracking
// view: possession of the token is the only credential, so the handler
// applies no further authorization.  Returns the order, its quote and
// the status history ordered oldest first.
func (h *OrderHandler) Track(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tracking token required"})
	}
	view, err := h.Engine.TrackByToken(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load order"})
	}
	return c.JSON(http.StatusOK, newTrackingResponse(view))
}
