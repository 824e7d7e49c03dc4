package handler

import (
	"github.com/andesind/catalog-api/internal/application/service"
	"github.com/andesind/catalog-api/internal/presentation/http/dto/request"
	"github.com/andesind/catalog-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles client-related HTTP requests
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// LookupTaxID resolves a client by RUC
// @Summary Lookup client by RUC
// @Description Find a client by RUC, asking the tax registry when the stored data is stale or missing. esNuevo is true when the client is not saved yet.
// @Tags clients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.LookupTaxIDRequest true "RUC"
// @Success 200 {object} response.LookupResponse
// @Failure 404 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Failure 503 {object} response.APIResponse
// @Router /clients/lookup-tax-id [post]
func (h *ClientHandler) LookupTaxID(c *gin.Context) {
	var req request.LookupTaxIDRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.clientService.LookupByTaxID(c.Request.Context(), req.TaxID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Lookup(c, result.IsNew, result.Client)
}

// List handles listing clients
// @Summary List Clients
// @Tags clients
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param search query string false "Search by RUC or name"
// @Success 200 {object} response.APIResponse
// @Router /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	var q struct {
		Search string `form:"search"`
		Page   int    `form:"page"`
		Limit  int    `form:"limit"`
	}
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.clientService.ListClients(c.Request.Context(), pageParams(c, q.Page, q.Limit), q.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Clients retrieved successfully", result)
}

// Get handles getting a single client
// @Summary Get Client
// @Tags clients
// @Security BearerAuth
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.APIResponse
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "client")
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client retrieved successfully", client)
}

// Create handles creating a client
// @Summary Create Client
// @Tags clients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.ClientRequest true "Client"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req request.ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), clientInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Client created successfully", client)
}

// Update handles updating a client
// @Summary Update Client
// @Tags clients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body request.ClientRequest true "Client"
// @Success 200 {object} response.APIResponse
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "client")
	if !ok {
		return
	}
	var req request.ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), id, clientInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client updated successfully", client)
}

// Delete handles deactivating a client
// @Summary Delete Client
// @Tags clients
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 204
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "client")
	if !ok {
		return
	}

	if err := h.clientService.DeactivateClient(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func clientInput(req *request.ClientRequest) *service.ClientInput {
	return &service.ClientInput{
		TaxID:        req.TaxID,
		LegalName:    req.LegalName,
		TradeName:    req.TradeName,
		Address:      req.Address,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
	}
}
