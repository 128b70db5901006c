package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eaglebank/client-service/internal/middleware"
	"github.com/eaglebank/client-service/internal/models"
)

const (
	actionDeposit  = "deposit"
	actionWithdraw = "withdraw"
)

// AccountCommander defines the account operations that write the client document.
type AccountCommander interface {
	CreateAccount(ctx context.Context, account models.Account, clientID string) (*models.Account, error)
	Deposit(ctx context.Context, amount float64, clientID, name string) (*models.Account, error)
	Withdraw(ctx context.Context, amount float64, clientID, name string) (*models.Account, error)
	DeleteAccount(ctx context.Context, clientID, name string) (*models.Client, error)
}

// AccountQuerier defines the read-only account operations.
type AccountQuerier interface {
	GetAllAccounts(ctx context.Context, clientID string) ([]models.Account, error)
	GetAccountRange(ctx context.Context, amountGreaterThan, amountLessThan, clientID string) ([]models.Account, error)
	GetAccount(ctx context.Context, clientID, name string) (*models.Account, error)
}

type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

type CreateAccountRequest struct {
	AccName string  `json:"accName" validate:"required,max=100"`
	Balance float64 `json:"balance"`
}

// AmountRequest is the body of a deposit or withdrawal. Amount is a pointer so
// an explicit 0 reaches the service and is rejected there as non-positive.
type AmountRequest struct {
	Amount *float64 `json:"amount" validate:"required"`
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}

	account, err := h.commands.CreateAccount(c.Request.Context(), models.Account{
		AccName: req.AccName,
		Balance: req.Balance,
	}, c.Param("clientId"))
	if err != nil {
		respondWithDomainError(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, account)
}

// ListAccounts returns every account, or only those within a balance range
// when amountGreaterThan or amountLessThan is present in the query.
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	clientID := c.Param("clientId")
	greater, hasGreater := c.GetQuery("amountGreaterThan")
	less, hasLess := c.GetQuery("amountLessThan")

	var (
		accounts []models.Account
		err      error
	)
	if hasGreater || hasLess {
		accounts, err = h.queries.GetAccountRange(c.Request.Context(), greater, less, clientID)
	} else {
		accounts, err = h.queries.GetAllAccounts(c.Request.Context(), clientID)
	}
	if err != nil {
		respondWithDomainError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.queries.GetAccount(c.Request.Context(), c.Param("clientId"), c.Param("accName"))
	if err != nil {
		respondWithDomainError(c, err, "Failed to fetch account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// MoveFunds serves PATCH .../accounts/:accName/:action for deposit and withdraw.
func (h *AccountHandler) MoveFunds(c *gin.Context) {
	action := c.Param("action")
	if action != actionDeposit && action != actionWithdraw {
		middleware.RespondWithError(c, http.StatusNotFound, "Unknown account action "+action)
		return
	}

	var req AmountRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ctx := c.Request.Context()
	clientID, name := c.Param("clientId"), c.Param("accName")
	var (
		account *models.Account
		err     error
	)
	if action == actionDeposit {
		account, err = h.commands.Deposit(ctx, *req.Amount, clientID, name)
	} else {
		account, err = h.commands.Withdraw(ctx, *req.Amount, clientID, name)
	}
	if err != nil {
		respondWithDomainError(c, err, "Failed to "+action+" funds")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	client, err := h.commands.DeleteAccount(c.Request.Context(), c.Param("clientId"), c.Param("accName"))
	if err != nil {
		respondWithDomainError(c, err, "Failed to delete account")
		return
	}
	c.JSON(http.StatusOK, client)
}
