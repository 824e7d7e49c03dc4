package handler

import (
	"net/http"

	"github.com/andesind/catalog-api/internal/application/service"
	"github.com/andesind/catalog-api/internal/presentation/http/dto/request"
	"github.com/andesind/catalog-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ContactHandler handles back office contact requests
type ContactHandler struct {
	contactService *service.ContactService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// List handles listing contact requests
// @Summary List Contacts
// @Tags contacts
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param search query string false "Search term"
// @Param status query string false "NUEVO, CONTACTADO or CERRADO"
// @Success 200 {object} response.APIResponse
// @Router /contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	var q struct {
		Search string `form:"search"`
		Status string `form:"status"`
		Page   int    `form:"page"`
		Limit  int    `form:"limit"`
	}
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.contactService.ListContacts(c.Request.Context(), &service.ListContactsInput{
		Pagination: pageParams(c, q.Page, q.Limit),
		Search:     q.Search,
		Status:     q.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Contacts retrieved successfully", result)
}

// Get handles getting a single contact request
// @Summary Get Contact
// @Tags contacts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} response.APIResponse
// @Router /contacts/{id} [get]
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "contact")
	if !ok {
		return
	}

	contact, err := h.contactService.GetContact(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Contact retrieved successfully", contact)
}

// UpdateStatus handles moving a contact request through follow-up
// @Summary Update Contact Status
// @Tags contacts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param request body request.ContactStatusRequest true "Status"
// @Success 200 {object} response.APIResponse
// @Router /contacts/{id}/status [patch]
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "contact")
	if !ok {
		return
	}
	var req request.ContactStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	contact, err := h.contactService.UpdateContactStatus(c.Request.Context(), id, *req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Contact status updated", contact)
}

// Delete handles archiving a contact request
// @Summary Delete Contact
// @Tags contacts
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 204
// @Router /contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "contact")
	if !ok {
		return
	}

	if err := h.contactService.DeleteContact(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
