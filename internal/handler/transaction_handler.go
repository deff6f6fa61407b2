package handler

import (
	"net/http"
	"strconv"

	"github.com/finledger/transactions-api/internal/cqrs"
	"github.com/finledger/transactions-api/internal/middleware"
	"github.com/finledger/transactions-api/internal/models"
	"github.com/finledger/transactions-api/internal/query"
	"github.com/gin-gonic/gin"
)

const (
	maxSlugLength = 100

	defaultListLimit  = 10
	defaultListOffset = 0
)

// TransactionCommander defines the write-side operations used by TransactionHandler.
type TransactionCommander interface {
	CreateTransaction(cqrs.CreateTransactionCommand) (*models.Transaction, error)
	UpdateTransaction(cqrs.UpdateTransactionCommand) (*models.Transaction, error)
	DeleteTransaction(cqrs.DeleteTransactionCommand) error
}

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	GetTransaction(cqrs.GetTransactionQuery) (*models.Transaction, error)
	ListTransactions(cqrs.ListTransactionsQuery) (*query.TransactionPage, error)
	LatestTransactions(cqrs.LatestTransactionsQuery) ([]models.Transaction, error)
}

type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

type TransactionRequest struct {
	AccountID       int64   `json:"account_id" validate:"required,gt=0"`
	UserID          int64   `json:"user_id" validate:"required,gt=0"`
	PaymentMethodID int64   `json:"payment_method_id" validate:"required,gt=0"`
	TransactionType string  `json:"transaction_type" validate:"required"`
	Category        string  `json:"category" validate:"required"`
	Amount          float64 `json:"amount" validate:"required,gt=0,lte=1000000"`
	Description     string  `json:"description" validate:"required,min=3,max=1024"`
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	page, err := h.queries.ListTransactions(cqrs.ListTransactionsQuery{
		UserID: principal.ID,
		Admin:  principal.Admin,
		Limit:  intQuery(c, "limit", defaultListLimit),
		Offset: intQuery(c, "offset", defaultListOffset),
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	slug := c.Param("slug")
	if len(slug) > maxSlugLength {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Slug is too long"})
		return
	}

	transaction, err := h.queries.GetTransaction(cqrs.GetTransactionQuery{Slug: slug})
	if err != nil {
		if err.Error() == "transaction not found" {
			c.JSON(http.StatusNotFound, gin.H{"message": "Transaction not found"})
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get transaction")
		return
	}

	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if fieldErrors := middleware.ValidateRequest(req); fieldErrors != nil {
		middleware.RespondWithValidationError(c, fieldErrors)
		return
	}

	transaction, err := h.commands.CreateTransaction(cqrs.CreateTransactionCommand{
		AccountID:       req.AccountID,
		UserID:          req.UserID,
		PaymentMethodID: req.PaymentMethodID,
		TransactionType: req.TransactionType,
		Category:        req.Category,
		Amount:          req.Amount,
		Description:     req.Description,
	})
	if err != nil {
		if fieldErrors := referenceFieldErrors(err); fieldErrors != nil {
			middleware.RespondWithValidationError(c, fieldErrors)
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	slug := c.Param("slug")
	if len(slug) > maxSlugLength {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Slug is too long"})
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if fieldErrors := middleware.ValidateRequest(req); fieldErrors != nil {
		middleware.RespondWithValidationError(c, fieldErrors)
		return
	}

	updated, err := h.commands.UpdateTransaction(cqrs.UpdateTransactionCommand{
		Slug:            slug,
		AccountID:       req.AccountID,
		UserID:          req.UserID,
		PaymentMethodID: req.PaymentMethodID,
		TransactionType: req.TransactionType,
		Category:        req.Category,
		Amount:          req.Amount,
		Description:     req.Description,
	})
	if err != nil {
		if err.Error() == "transaction not found" {
			middleware.RespondWithError(c, http.StatusNotFound, "transaction not found")
			return
		}
		if fieldErrors := referenceFieldErrors(err); fieldErrors != nil {
			middleware.RespondWithValidationError(c, fieldErrors)
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	err := h.commands.DeleteTransaction(cqrs.DeleteTransactionCommand{Slug: c.Param("slug")})
	if err != nil {
		if err.Error() == "transaction not found" {
			middleware.RespondWithError(c, http.StatusNotFound, "transaction not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TransactionHandler) LatestTransactions(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	latest, err := h.queries.LatestTransactions(cqrs.LatestTransactionsQuery{
		UserID: principal.ID,
		Admin:  principal.Admin,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	if latest == nil {
		latest = []models.Transaction{}
	}

	c.JSON(http.StatusOK, gin.H{"latest": latest})
}

// referenceFieldErrors maps existence-check failures from the command
// service onto per-field validation errors.
func referenceFieldErrors(err error) []middleware.FieldError {
	var field string
	switch err.Error() {
	case "unknown account_id":
		field = "account_id"
	case "unknown user_id":
		field = "user_id"
	case "unknown payment_method_id":
		field = "payment_method_id"
	default:
		return nil
	}
	return []middleware.FieldError{{
		Field:   field,
		Message: field + " does not reference an existing row",
		Type:    "exists",
	}}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(fallback)))
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
