package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogapp "github.com/pos/backend/internal/application/catalog"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

// ProductHandler handles product catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProductRequest registers a new product
type CreateProductRequest struct {
	BarCode        string          `json:"bar_code" binding:"required,max=50"`
	Packaging      string          `json:"packaging" binding:"required,max=50"`
	Description    string          `json:"description" binding:"required,max=200"`
	UnitOfMeasure  string          `json:"unit_of_measure" binding:"required,max=20"`
	ManufacturerID uuid.UUID       `json:"manufacturer_id" binding:"required"`
	Price          decimal.Decimal `json:"price"`
}

// UpdateProductRequest changes a product's bar code or price
type UpdateProductRequest struct {
	BarCode *string          `json:"bar_code" binding:"omitempty,max=50"`
	Price   *decimal.Decimal `json:"price"`
}

// SupplierSKURequest attaches or detaches a supplier SKU cross-reference
type SupplierSKURequest struct {
	SupplierID  uuid.UUID `json:"supplier_id" binding:"required"`
	SupplierSKU string    `json:"supplier_sku" binding:"required,max=50"`
}

// Create registers a new product
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), catalogapp.CreateProductRequest{
		BarCode:        req.BarCode,
		Packaging:      req.Packaging,
		Description:    req.Description,
		UnitOfMeasure:  req.UnitOfMeasure,
		ManufacturerID: req.ManufacturerID,
		Price:          req.Price,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID returns a single product with its supplier SKUs
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GetByBarCode looks up an active product by bar code
func (h *ProductHandler) GetByBarCode(c *gin.Context) {
	barCode := c.Param("barcode")
	if barCode == "" {
		h.BadRequest(c, "Bar code is required")
		return
	}

	product, err := h.productService.GetByBarCode(c.Request.Context(), barCode)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List returns a paginated product listing
func (h *ProductHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.productService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update changes a product's bar code or price
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), catalogapp.UpdateProductRequest{
		ProductID: id,
		BarCode:   req.BarCode,
		Price:     req.Price,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Deactivate retires a product from the catalog
func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddSupplierSKU attaches a supplier SKU cross-reference to a product
func (h *ProductHandler) AddSupplierSKU(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req SupplierSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.productService.AddSupplierSKU(c.Request.Context(), catalogapp.AddSupplierSKURequest{
		ProductID:   id,
		SupplierID:  req.SupplierID,
		SupplierSKU: req.SupplierSKU,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// RemoveSupplierSKU detaches a supplier SKU cross-reference from a product
func (h *ProductHandler) RemoveSupplierSKU(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req SupplierSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.productService.RemoveSupplierSKU(c.Request.Context(), catalogapp.AddSupplierSKURequest{
		ProductID:   id,
		SupplierID:  req.SupplierID,
		SupplierSKU: req.SupplierSKU,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}
