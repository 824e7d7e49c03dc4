package handler

import (
	"net/http"
	"strconv"

	"github.com/andesind/catalog-api/internal/application/service"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/internal/presentation/http/dto/request"
	"github.com/andesind/catalog-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// PublicHandler serves the storefront. None of its routes need a session.
type PublicHandler struct {
	productService *service.ProductService
	contactService *service.ContactService
}

// NewPublicHandler creates a new storefront handler
func NewPublicHandler(productService *service.ProductService, contactService *service.ContactService) *PublicHandler {
	return &PublicHandler{productService: productService, contactService: contactService}
}

// ListProducts lists active products
// @Summary Browse Catalog
// @Tags public
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param search query string false "Search term"
// @Param category query string false "Category filter"
// @Success 200 {object} response.APIResponse
// @Router /public/products [get]
func (h *PublicHandler) ListProducts(c *gin.Context) {
	var filter request.ProductFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	result, err := h.productService.ListPublicProducts(c.Request.Context(), &service.ListProductsInput{
		Pagination: pageParams(c, filter.Page, filter.Limit),
		Search:     filter.Search,
		Category:   filter.Category,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Products retrieved successfully", result)
}

// GetProduct returns an active product by slug
// @Summary Product Detail
// @Tags public
// @Produce json
// @Param slug path string true "Product slug"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /public/products/{slug} [get]
func (h *PublicHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetPublicProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// WhatsAppLink returns a wa.me link asking about a product
// @Summary Product WhatsApp Link
// @Tags public
// @Produce json
// @Param slug path string true "Product slug"
// @Param quantity query int false "Requested quantity"
// @Success 200 {object} response.APIResponse
// @Router /public/products/{slug}/whatsapp [get]
func (h *PublicHandler) WhatsAppLink(c *gin.Context) {
	quantity := 0
	if raw := c.Query("quantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.BadRequest(c, "Invalid quantity")
			return
		}
		quantity = n
	}

	link, err := h.contactService.ProductWhatsAppLink(c.Request.Context(), c.Param("slug"), quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "WhatsApp link generated", gin.H{"whatsapp_link": link})
}

// SubmitContact stores a storefront contact request
// @Summary Contact Sales
// @Tags public
// @Accept json
// @Produce json
// @Param request body request.ContactRequest true "Contact request"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /public/contacts [post]
func (h *PublicHandler) SubmitContact(c *gin.Context) {
	var req request.ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.contactService.SubmitContact(c.Request.Context(), &service.ContactInput{
		Name:      req.Name,
		Company:   req.Company,
		Phone:     req.Phone,
		Email:     req.Email,
		Message:   req.Message,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Source:    enum.ContactSource(req.Source),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Contact request received", output)
}
