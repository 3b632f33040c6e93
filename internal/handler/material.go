package handler

import (
	"net/http" // HTTP status codes
	"strings"  // input normalization

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/printforge/print-shop-service/internal/model"
	"github.com/printforge/print-shop-service/internal/repository"
)

// MaterialHandler exposes the material catalog: a public listing used
// by the quote form and a staff endpoint for adding new materials.
type MaterialHandler struct {
	Materials *repository.MaterialRepo
}

// NewMaterialHandler constructs a MaterialHandler.
func NewMaterialHandler(materials *repository.MaterialRepo) *MaterialHandler {
	if materials == nil {
		panic("nil repo passed to NewMaterialHandler")
	}
	return &MaterialHandler{Materials: materials}
}

// List handles GET /v1/materials.  Public, no auth.
func (h *MaterialHandler) List(c echo.Context) error {
	materials, err := h.Materials.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load materials"})
	}
	items := make([]MaterialResponse, 0, len(materials))
	for _, m := range materials {
		items = append(items, newMaterialResponse(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type createMaterialReq struct {
	Name              string   `json:"name"`
	PricePerGramCents int64    `json:"price_per_gram_cents"`
	Colors            []string `json:"colors"`
}

// Create handles POST /v1/admin/materials.  Staff only.  Name
// uniqueness is not enforced; when names collide the oldest row wins
// during pricing.
func (h *MaterialHandler) Create(c echo.Context) error {
	var req createMaterialReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required", "field": "name"})
	}
	if req.PricePerGramCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_gram_cents must be positive", "field": "price_per_gram_cents"})
	}
	colors := make([]string, 0, len(req.Colors))
	for _, col := range req.Colors {
		col = strings.TrimSpace(col)
		if col != "" {
			colors = append(colors, col)
		}
	}

	id, err := h.Materials.Create(c.Request().Context(), req.Name, req.PricePerGramCents, colors)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create material"})
	}
	m, err := h.Materials.GetByName(c.Request().Context(), req.Name)
	if err != nil || m.ID != id {
		// Query-back failed or an older row shadows the name; respond
		// with what was written.
		m = model.Material{ID: id, Name: req.Name, PricePerGramCents: req.PricePerGramCents, Colors: colors}
	}
	return c.JSON(http.StatusCreated, echo.Map{"material": newMaterialResponse(m)})
}
