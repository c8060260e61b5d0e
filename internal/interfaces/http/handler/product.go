package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/icepoint/backend/internal/application/catalog"
	"github.com/icepoint/backend/internal/interfaces/http/dto"
)

// maxImageBytes caps product and avatar uploads at 5 MiB
const maxImageBytes = 5 << 20

// ProductHandler handles product catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List returns the storefront catalog page. Only available products are shown.
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.productService.List(c.Request.Context(), req.ToFilter(), false)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListAll returns the full catalog, including unavailable products
func (h *ProductHandler) ListAll(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.productService.List(c.Request.Context(), req.ToFilter(), true)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListHighlighted returns the products pinned to the home page
func (h *ProductHandler) ListHighlighted(c *gin.Context) {
	products, err := h.productService.ListHighlighted(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, products)
}

// Get returns a single product
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := getIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// Create adds a product to the catalog
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, product)
}

// Update applies a partial update to a product
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := getIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete removes a product and its stored image
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := getIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadImage replaces the product photo
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, err := getIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	data, err := readUpload(c, "image")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.UploadImage(c.Request.Context(), id, data)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// readUpload pulls the named multipart file into memory
func readUpload(c *gin.Context, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, errMissingUpload(field)
	}
	if fileHeader.Size > maxImageBytes {
		return nil, errUploadTooLarge(field)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(io.LimitReader(file, maxImageBytes))
}

type uploadError string

func (e uploadError) Error() string { return string(e) }

func errMissingUpload(field string) error {
	return uploadError("Missing file upload field '" + field + "'")
}

func errUploadTooLarge(field string) error {
	return uploadError("File in field '" + field + "' exceeds the maximum allowed size")
}
