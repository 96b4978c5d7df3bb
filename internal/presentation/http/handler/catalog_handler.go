package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-checkout/internal/application/service"
	"github.com/sangkips/salon-checkout/internal/presentation/http/dto/response"
)

// CatalogHandler serves the active salon catalog
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) Services(c *gin.Context) {
	services, err := h.catalogService.Services(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Services retrieved successfully", services)
}

func (h *CatalogHandler) Products(c *gin.Context) {
	products, err := h.catalogService.Products(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Products retrieved successfully", products)
}

func (h *CatalogHandler) Specialists(c *gin.Context) {
	specialists, err := h.catalogService.Specialists(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Specialists retrieved successfully", specialists)
}

func (h *CatalogHandler) Discounts(c *gin.Context) {
	discounts, err := h.catalogService.Discounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discounts retrieved successfully", discounts)
}

func (h *CatalogHandler) PaymentMethods(c *gin.Context) {
	methods, err := h.catalogService.PaymentMethods(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment methods retrieved successfully", methods)
}

// Refresh drops the cached catalog so the next read goes to the salon backend
func (h *CatalogHandler) Refresh(c *gin.Context) {
	if err := h.catalogService.Invalidate(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Catalog cache cleared", nil)
}
