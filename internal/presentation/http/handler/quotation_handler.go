package handler

import (
	"net/http"

	"github.com/andesind/catalog-api/internal/application/service"
	"github.com/andesind/catalog-api/internal/presentation/http/dto/request"
	"github.com/andesind/catalog-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuotationHandler handles quotation-related HTTP requests
type QuotationHandler struct {
	quotationService *service.QuotationService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotationService *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// List handles listing quotations
// @Summary List Quotations
// @Description Get all quotations with pagination and filtering. Sent quotations past their expiration date are reported as VENCIDA.
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param search query string false "Search by number, RUC or client name"
// @Param status query string false "BORRADOR, ENVIADA, APROBADA, RECHAZADA or VENCIDA"
// @Success 200 {object} response.APIResponse
// @Router /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	var filter request.QuotationFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	input := &service.ListQuotationsInput{
		Pagination: pageParams(c, filter.Page, filter.Limit),
		Search:     filter.Search,
		Status:     filter.Status,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	}
	if filter.ClientID != "" {
		clientID, err := uuid.Parse(filter.ClientID)
		if err != nil {
			response.BadRequest(c, "Invalid client ID")
			return
		}
		input.ClientID = &clientID
	}

	result, err := h.quotationService.ListQuotations(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Quotations retrieved successfully", result)
}

// Get handles getting a single quotation
// @Summary Get Quotation
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id} [get]
func (h *QuotationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "quotation")
	if !ok {
		return
	}

	quotation, err := h.quotationService.GetQuotation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation retrieved successfully", quotation)
}

// Create handles creating a quotation
// @Summary Create Quotation
// @Description Prices, descriptions and totals are taken from the catalog. Send an Idempotency-Key header to make retries safe.
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body request.QuotationRequest true "Quotation"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.QuotationRequest
	if !bindJSON(c, &req) {
		return
	}

	quotation, err := h.quotationService.CreateQuotation(c.Request.Context(), quotationInput(*userID, &req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation created successfully", quotation)
}

// Update handles updating a quotation
// @Summary Update Quotation
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body request.QuotationRequest true "Quotation"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /quotations/{id} [put]
func (h *QuotationHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	id, ok := pathID(c, "quotation")
	if !ok {
		return
	}

	var req request.QuotationRequest
	if !bindJSON(c, &req) {
		return
	}

	quotation, err := h.quotationService.UpdateQuotation(c.Request.Context(), id, quotationInput(*userID, &req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation updated successfully", quotation)
}

// UpdateStatus handles a status transition
// @Summary Change Quotation Status
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body request.QuotationStatusRequest true "Status"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /quotations/{id}/status [patch]
func (h *QuotationHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "quotation")
	if !ok {
		return
	}
	var req request.QuotationStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	quotation, err := h.quotationService.ChangeStatus(c.Request.Context(), id, *req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation status updated", quotation)
}

// Delete handles deleting a quotation
// @Summary Delete Quotation
// @Tags quotations
// @Security BearerAuth
// @Param id path string true "Quotation ID"
// @Success 204
// @Failure 409 {object} response.APIResponse
// @Router /quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "quotation")
	if !ok {
		return
	}

	if err := h.quotationService.DeleteQuotation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// PDF handles downloading the quotation document
// @Summary Quotation PDF
// @Tags quotations
// @Security BearerAuth
// @Produce application/pdf
// @Param id path string true "Quotation ID"
// @Success 200 {file} file
// @Router /quotations/{id}/pdf [get]
func (h *QuotationHandler) PDF(c *gin.Context) {
	id, ok := pathID(c, "quotation")
	if !ok {
		return
	}

	quotation, doc, err := h.quotationService.RenderPDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+quotation.Number+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

func quotationInput(userID uuid.UUID, req *request.QuotationRequest) *service.QuotationInput {
	items := make([]service.QuotationItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.QuotationItemInput{
			ProductID: item.ProductID,
			Code:      item.Code,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
		})
	}
	return &service.QuotationInput{
		UserID:         userID,
		ClientID:       req.Client.ID,
		ClientTaxID:    req.Client.TaxID,
		Currency:       req.Currency,
		TaxRate:        req.TaxRate,
		Notes:          req.Notes,
		Terms:          req.Terms,
		ExpirationDate: req.ExpirationDate,
		Status:         req.Status,
		Items:          items,
	}
}
