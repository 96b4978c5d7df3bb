package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-checkout/internal/application/service"
	"github.com/sangkips/salon-checkout/internal/infrastructure/salonapi"
	"github.com/sangkips/salon-checkout/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-checkout/internal/presentation/http/dto/response"
)

// ClientHandler handles salon client lookups from the checkout screen
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// Search handles the client quick search (?q=)
func (h *ClientHandler) Search(c *gin.Context) {
	clients, err := h.clientService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Clients retrieved successfully", clients)
}

// Get handles retrieving a client
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clientService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Client retrieved successfully", client)
}

// Create handles registering a walk-in client
func (h *ClientHandler) Create(c *gin.Context) {
	var req request.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), salonapi.ClientInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Document: req.Document,
		Email:    req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Client created successfully", client)
}

// Deposits handles listing a client's deposits with a remaining balance
func (h *ClientHandler) Deposits(c *gin.Context) {
	balance, err := h.clientService.Deposits(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Deposits retrieved successfully", balance)
}
