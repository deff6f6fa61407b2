package handler

import (
	"net/http"

	"github.com/finledger/transactions-api/internal/cqrs"
	"github.com/finledger/transactions-api/internal/middleware"
	"github.com/finledger/transactions-api/internal/models"
	"github.com/gin-gonic/gin"
)

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	ListAccounts(cqrs.ListAccountsQuery) ([]models.Account, error)
	GetAccount(slug string) (*models.Account, error)
}

type AccountHandler struct {
	queries AccountQuerier
}

func NewAccountHandler(queries AccountQuerier) *AccountHandler {
	return &AccountHandler{queries: queries}
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	accounts, err := h.queries.ListAccounts(cqrs.ListAccountsQuery{
		UserID: principal.ID,
		Admin:  principal.Admin,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list accounts")
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}

	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.queries.GetAccount(c.Param("slug"))
	if err != nil {
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		return
	}

	c.JSON(http.StatusOK, account)
}
