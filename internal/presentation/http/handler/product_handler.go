package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/andesind/catalog-api/internal/application/service"
	"github.com/andesind/catalog-api/internal/presentation/http/dto/request"
	"github.com/andesind/catalog-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// maxImportSize bounds uploaded workbooks
const maxImportSize = 10 << 20

// ProductHandler handles back office product requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products, active or not
// @Summary List Products
// @Tags products
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param search query string false "Search term"
// @Param category query string false "Category filter"
// @Param active query bool false "Only active products"
// @Success 200 {object} response.APIResponse
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	result, err := h.productService.ListProducts(c.Request.Context(), &service.ListProductsInput{
		Pagination: pageParams(c, filter.Page, filter.Limit),
		Search:     filter.Search,
		Category:   filter.Category,
		OnlyActive: filter.Active,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Products retrieved successfully", result)
}

// Get handles getting a single product
// @Summary Get Product
// @Tags products
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} response.APIResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "product")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Create handles creating a product
// @Summary Create Product
// @Tags products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.ProductRequest true "Product"
// @Success 201 {object} response.APIResponse
// @Router /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), productInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Update handles updating a product
// @Summary Update Product
// @Tags products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body request.ProductRequest true "Product"
// @Success 200 {object} response.APIResponse
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "product")
	if !ok {
		return
	}
	var req request.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, productInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product
// @Summary Delete Product
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "product")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Import handles a bulk product upload
// @Summary Import Products
// @Description Create products from an .xlsx workbook sent as the "file" form field
// @Tags products
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook"
// @Success 200 {object} response.APIResponse
// @Router /products/import [post]
func (h *ProductHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "A workbook must be sent in the \"file\" field")
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		response.BadRequest(c, "Only .xlsx workbooks are supported")
		return
	}

	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, "The workbook could not be read")
		return
	}
	defer file.Close()

	result, err := h.productService.ImportProducts(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Products imported", result)
}

func productInput(req *request.ProductRequest) *service.ProductInput {
	variants := make([]service.VariantInput, 0, len(req.Variants))
	for _, v := range req.Variants {
		variants = append(variants, service.VariantInput{
			Code:        v.Code,
			Description: v.Description,
			UnitPrice:   v.UnitPrice,
			Unit:        v.Unit,
		})
	}
	return &service.ProductInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Details:     req.Details,
		BasePrice:   req.BasePrice,
		Unit:        req.Unit,
		IsActive:    req.IsActive,
		Variants:    variants,
	}
}
