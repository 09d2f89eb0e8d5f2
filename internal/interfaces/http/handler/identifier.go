package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/pos/backend/internal/application/catalog"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

// IdentifierHandler handles manufacturer, supplier, branch and customer endpoints
type IdentifierHandler struct {
	BaseHandler
	identifierService *catalogapp.IdentifierService
}

// NewIdentifierHandler creates a new IdentifierHandler
func NewIdentifierHandler(identifierService *catalogapp.IdentifierService) *IdentifierHandler {
	return &IdentifierHandler{identifierService: identifierService}
}

// CreateIdentifierRequest registers a named identifier
type CreateIdentifierRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CustomerRequest looks up or registers a customer by tax ID
type CustomerRequest struct {
	Nit  string `json:"nit" binding:"required,max=20"`
	Name string `json:"name" binding:"required,max=100"`
}

// CreateManufacturer registers a manufacturer
func (h *IdentifierHandler) CreateManufacturer(c *gin.Context) {
	var req CreateIdentifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.identifierService.CreateManufacturer(c.Request.Context(), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListManufacturers returns manufacturers ordered by name
func (h *IdentifierHandler) ListManufacturers(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	items, err := h.identifierService.ListManufacturers(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// CreateSupplier registers a supplier
func (h *IdentifierHandler) CreateSupplier(c *gin.Context) {
	var req CreateIdentifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.identifierService.CreateSupplier(c.Request.Context(), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListSuppliers returns suppliers ordered by name
func (h *IdentifierHandler) ListSuppliers(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	items, err := h.identifierService.ListSuppliers(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// CreateBranch registers a branch
func (h *IdentifierHandler) CreateBranch(c *gin.Context) {
	var req CreateIdentifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.identifierService.CreateBranch(c.Request.Context(), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListBranches returns branches ordered by name
func (h *IdentifierHandler) ListBranches(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	items, err := h.identifierService.ListBranches(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// FindOrCreateCustomer looks up a customer by tax ID, registering it when new
func (h *IdentifierHandler) FindOrCreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.identifierService.FindOrCreateCustomer(c.Request.Context(), req.Nit, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetCustomerByNit returns a customer by tax ID
func (h *IdentifierHandler) GetCustomerByNit(c *gin.Context) {
	nit := c.Param("nit")
	if nit == "" {
		h.BadRequest(c, "Nit is required")
		return
	}

	resp, err := h.identifierService.GetCustomerByNit(c.Request.Context(), nit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
