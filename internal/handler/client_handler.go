package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eaglebank/client-service/internal/apperr"
	"github.com/eaglebank/client-service/internal/models"
)

// ClientCommander defines the write-side client operations used by ClientHandler.
type ClientCommander interface {
	CreateClient(ctx context.Context, client *models.Client) (*models.Client, error)
	UpdateClient(ctx context.Context, clientID string, client *models.Client) (*models.Client, error)
	DeleteClient(ctx context.Context, clientID string) (bool, error)
}

// ClientQuerier defines the read-side client operations used by ClientHandler.
type ClientQuerier interface {
	GetAllClients(ctx context.Context) ([]models.Client, error)
	GetClient(ctx context.Context, clientID string) (*models.Client, error)
}

type ClientHandler struct {
	commands ClientCommander
	queries  ClientQuerier
}

type CreateClientRequest struct {
	Fname string `json:"fname" validate:"required,max=100"`
	Lname string `json:"lname" validate:"required,max=100"`
}

// UpdateClientRequest accepts a full client document. Accounts are read but
// never applied; the stored accounts always survive an update.
type UpdateClientRequest struct {
	Fname    string           `json:"fname" validate:"required,max=100"`
	Lname    string           `json:"lname" validate:"required,max=100"`
	Accounts []models.Account `json:"accounts"`
}

func NewClientHandler(commands ClientCommander, queries ClientQuerier) *ClientHandler {
	return &ClientHandler{commands: commands, queries: queries}
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if !bindAndValidate(c, &req) {
		return
	}

	client, err := h.commands.CreateClient(c.Request.Context(), &models.Client{
		Fname: req.Fname,
		Lname: req.Lname,
	})
	if err != nil {
		respondWithDomainError(c, err, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.queries.GetAllClients(c.Request.Context())
	if err != nil {
		respondWithDomainError(c, err, "Failed to list clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.queries.GetClient(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondWithDomainError(c, err, "Failed to fetch client")
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var req UpdateClientRequest
	if !bindAndValidate(c, &req) {
		return
	}

	client, err := h.commands.UpdateClient(c.Request.Context(), c.Param("clientId"), &models.Client{
		Fname:    req.Fname,
		Lname:    req.Lname,
		Accounts: req.Accounts,
	})
	if err != nil {
		respondWithDomainError(c, err, "Failed to update client")
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID := c.Param("clientId")
	ok, err := h.commands.DeleteClient(c.Request.Context(), clientID)
	if err != nil {
		respondWithDomainError(c, err, "Failed to delete client")
		return
	}
	if !ok {
		respondWithDomainError(c, apperr.NotFound(clientID), "Failed to delete client")
		return
	}
	c.Status(http.StatusResetContent)
}
