package handler

import (
	"strconv"

	"github.com/andesind/catalog-api/internal/application/service"
	"github.com/andesind/catalog-api/internal/presentation/http/dto/request"
	"github.com/andesind/catalog-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// DraftHandler backs the quotation editor: product search and live
// recalculation of the draft being edited. Nothing here is persisted.
type DraftHandler struct {
	draftService *service.DraftService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(draftService *service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

// SearchProducts finds quotable products with their variants
// @Summary Search Quotable Products
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param q query string false "Search term"
// @Param limit query int false "Maximum results (default 10, max 50)"
// @Success 200 {object} response.APIResponse
// @Router /quotation-products/search [get]
func (h *DraftHandler) SearchProducts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "Invalid limit")
			return
		}
		limit = n
	}

	results, err := h.draftService.SearchProducts(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Products retrieved successfully", results)
}

// Apply runs one editor action against the draft sent by the client
// @Summary Apply Draft Action
// @Description Actions: add_selection, remove_line, edit_line, set_tax_rate, set_currency, recalculate. Returns the recomputed draft.
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.DraftActionRequest true "Draft and action"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /quotation-drafts/apply [post]
func (h *DraftHandler) Apply(c *gin.Context) {
	var req request.DraftActionRequest
	if !bindJSON(c, &req) {
		return
	}

	a := req.Action
	next, err := h.draftService.ApplyAction(c.Request.Context(), req.Draft, &service.DraftAction{
		Type:      a.Type,
		ProductID: a.ProductID,
		Codes:     a.Codes,
		Sequence:  a.Sequence,
		Patch:     a.Patch,
		TaxRate:   a.TaxRate,
		Currency:  a.Currency,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Draft updated", next)
}
