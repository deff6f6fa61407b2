package handler

import (
	"net/http"

	"github.com/finledger/transactions-api/internal/middleware"
	"github.com/finledger/transactions-api/internal/models"
	"github.com/gin-gonic/gin"
)

// ReferenceQuerier defines the read-side operations used by ReferenceHandler.
type ReferenceQuerier interface {
	Users() ([]models.User, error)
	User(slug string) (*models.User, error)
	Categories() ([]models.Category, error)
	Category(slug string) (*models.Category, error)
	Budgets() ([]models.Budget, error)
	Budget(slug string) (*models.Budget, error)
	PaymentMethods() ([]models.PaymentMethod, error)
	PaymentMethod(slug string) (*models.PaymentMethod, error)
}

type ReferenceHandler struct {
	queries ReferenceQuerier
}

func NewReferenceHandler(queries ReferenceQuerier) *ReferenceHandler {
	return &ReferenceHandler{queries: queries}
}

// Root describes the service surface so clients can discover the main
// collections without docs.
func (h *ReferenceHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "transactions-api",
		"description": "Personal finance ledger service",
		"_links": gin.H{
			"self":            "/",
			"transactions":    "/transactions",
			"categories":      "/categories",
			"budgets":         "/budgets",
			"payment_methods": "/payment_methods",
			"users":           "/users",
			"accounts":        "/accounts",
		},
	})
}

func (h *ReferenceHandler) ListUsers(c *gin.Context) {
	users, err := h.queries.Users()
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list users")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

func (h *ReferenceHandler) GetUser(c *gin.Context) {
	user, err := h.queries.User(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *ReferenceHandler) ListCategories(c *gin.Context) {
	categories, err := h.queries.Categories()
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list categories")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

func (h *ReferenceHandler) GetCategory(c *gin.Context) {
	category, err := h.queries.Category(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *ReferenceHandler) ListBudgets(c *gin.Context) {
	budgets, err := h.queries.Budgets()
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list budgets")
		return
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	c.JSON(http.StatusOK, budgets)
}

func (h *ReferenceHandler) GetBudget(c *gin.Context) {
	budget, err := h.queries.Budget(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Budget not found"})
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (h *ReferenceHandler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.queries.PaymentMethods()
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list payment methods")
		return
	}
	if methods == nil {
		methods = []models.PaymentMethod{}
	}
	c.JSON(http.StatusOK, methods)
}

func (h *ReferenceHandler) GetPaymentMethod(c *gin.Context) {
	method, err := h.queries.PaymentMethod(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Payment method not found"})
		return
	}
	c.JSON(http.StatusOK, method)
}
