package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/finledger/transactions-api/internal/cqrs"
	"github.com/finledger/transactions-api/internal/middleware"
	"github.com/finledger/transactions-api/internal/models"
	"github.com/finledger/transactions-api/internal/query"
	"github.com/finledger/transactions-api/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockTransactionCommander struct {
	createFn func(cqrs.CreateTransactionCommand) (*models.Transaction, error)
	updateFn func(cqrs.UpdateTransactionCommand) (*models.Transaction, error)
	deleteFn func(cqrs.DeleteTransactionCommand) error
}

func (m *mockTransactionCommander) CreateTransaction(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	return m.createFn(cmd)
}

func (m *mockTransactionCommander) UpdateTransaction(cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
	return m.updateFn(cmd)
}

func (m *mockTransactionCommander) DeleteTransaction(cmd cqrs.DeleteTransactionCommand) error {
	return m.deleteFn(cmd)
}

type mockTransactionQuerier struct {
	getFn    func(cqrs.GetTransactionQuery) (*models.Transaction, error)
	listFn   func(cqrs.ListTransactionsQuery) (*query.TransactionPage, error)
	latestFn func(cqrs.LatestTransactionsQuery) ([]models.Transaction, error)
}

func (m *mockTransactionQuerier) GetTransaction(q cqrs.GetTransactionQuery) (*models.Transaction, error) {
	return m.getFn(q)
}

func (m *mockTransactionQuerier) ListTransactions(q cqrs.ListTransactionsQuery) (*query.TransactionPage, error) {
	return m.listFn(q)
}

func (m *mockTransactionQuerier) LatestTransactions(q cqrs.LatestTransactionsQuery) ([]models.Transaction, error) {
	return m.latestFn(q)
}

func newTransactionRouter(commands TransactionCommander, queries TransactionQuerier) *gin.Engine {
	tokens := token.NewService("test-secret", 3600)
	h := NewTransactionHandler(commands, queries)

	router := gin.New()
	router.GET("/transactions", middleware.AuthMiddleware(tokens), h.ListTransactions)
	router.GET("/transactions/latest", middleware.AuthMiddleware(tokens), h.LatestTransactions)
	router.POST("/transactions", h.CreateTransaction)
	router.GET("/transactions/:slug", h.GetTransaction)
	router.PATCH("/transactions/:slug", h.UpdateTransaction)
	router.DELETE("/transactions/:slug", h.DeleteTransaction)
	return router
}

func bearerToken(t *testing.T, id int64, admin bool) string {
	t.Helper()
	signed, err := token.NewService("test-secret", 3600).Issue(id, "tester", admin)
	require.NoError(t, err)
	return "Bearer " + signed
}

func validTransactionBody() string {
	return `{
		"account_id": 1,
		"user_id": 2,
		"payment_method_id": 3,
		"transaction_type": "expense",
		"category": "matur",
		"amount": 1500,
		"description": "groceries for the week"
	}`
}

func TestGetTransaction(t *testing.T) {
	stored := &models.Transaction{ID: 5, Slug: "transaction_5", Amount: 1500, Description: "groceries"}

	tests := []struct {
		name       string
		slug       string
		getFn      func(cqrs.GetTransactionQuery) (*models.Transaction, error)
		wantStatus int
		wantBody   string
	}{
		{
			name: "found",
			slug: "transaction_5",
			getFn: func(q cqrs.GetTransactionQuery) (*models.Transaction, error) {
				return stored, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "not found",
			slug: "transaction_999",
			getFn: func(q cqrs.GetTransactionQuery) (*models.Transaction, error) {
				return nil, fmt.Errorf("transaction not found")
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"message":"Transaction not found"}`,
		},
		{
			name: "slug too long",
			slug: strings.Repeat("a", 101),
			getFn: func(q cqrs.GetTransactionQuery) (*models.Transaction, error) {
				t.Fatal("query should not run for an oversized slug")
				return nil, nil
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Slug is too long"}`,
		},
		{
			name: "store failure",
			slug: "transaction_5",
			getFn: func(q cqrs.GetTransactionQuery) (*models.Transaction, error) {
				return nil, fmt.Errorf("connection refused")
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to get transaction"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTransactionRouter(&mockTransactionCommander{}, &mockTransactionQuerier{getFn: tt.getFn})

			req := httptest.NewRequest(http.MethodGet, "/transactions/"+tt.slug, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestListTransactions(t *testing.T) {
	t.Run("requires bearer token", func(t *testing.T) {
		router := newTransactionRouter(&mockTransactionCommander{}, &mockTransactionQuerier{})

		req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Authorization header missing"}`, w.Body.String())
	})

	t.Run("scopes to the principal and defaults paging", func(t *testing.T) {
		var captured cqrs.ListTransactionsQuery
		queries := &mockTransactionQuerier{
			listFn: func(q cqrs.ListTransactionsQuery) (*query.TransactionPage, error) {
				captured = q
				return &query.TransactionPage{
					Data:       []models.Transaction{},
					Pagination: query.Pagination{Limit: q.Limit, Offset: q.Offset, Total: 0},
				}, nil
			},
		}
		router := newTransactionRouter(&mockTransactionCommander{}, queries)

		req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
		req.Header.Set("Authorization", bearerToken(t, 7, false))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(7), captured.UserID)
		assert.False(t, captured.Admin)
		assert.Equal(t, 10, captured.Limit)
		assert.Equal(t, 0, captured.Offset)
		assert.JSONEq(t, `{"data":[],"pagination":{"limit":10,"offset":0,"total":0}}`, w.Body.String())
	})

	t.Run("honours limit and offset parameters", func(t *testing.T) {
		var captured cqrs.ListTransactionsQuery
		queries := &mockTransactionQuerier{
			listFn: func(q cqrs.ListTransactionsQuery) (*query.TransactionPage, error) {
				captured = q
				return &query.TransactionPage{Data: []models.Transaction{}}, nil
			},
		}
		router := newTransactionRouter(&mockTransactionCommander{}, queries)

		req := httptest.NewRequest(http.MethodGet, "/transactions?limit=25&offset=50", nil)
		req.Header.Set("Authorization", bearerToken(t, 1, true))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, captured.Admin)
		assert.Equal(t, 25, captured.Limit)
		assert.Equal(t, 50, captured.Offset)
	})

	t.Run("falls back on malformed paging parameters", func(t *testing.T) {
		var captured cqrs.ListTransactionsQuery
		queries := &mockTransactionQuerier{
			listFn: func(q cqrs.ListTransactionsQuery) (*query.TransactionPage, error) {
				captured = q
				return &query.TransactionPage{Data: []models.Transaction{}}, nil
			},
		}
		router := newTransactionRouter(&mockTransactionCommander{}, queries)

		req := httptest.NewRequest(http.MethodGet, "/transactions?limit=abc&offset=-3", nil)
		req.Header.Set("Authorization", bearerToken(t, 7, false))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 10, captured.Limit)
		assert.Equal(t, 0, captured.Offset)
	})
}

func TestCreateTransaction(t *testing.T) {
	created := &models.Transaction{ID: 9, Slug: "transaction_9", Amount: 1500}

	tests := []struct {
		name       string
		body       string
		createFn   func(cqrs.CreateTransactionCommand) (*models.Transaction, error)
		wantStatus int
		wantError  string
	}{
		{
			name: "created",
			body: validTransactionBody(),
			createFn: func(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
				return created, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed json",
			body:       `{"account_id":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid json",
		},
		{
			name:       "missing fields",
			body:       `{"account_id": 1}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid data",
		},
		{
			name:       "amount over ceiling",
			body:       strings.Replace(validTransactionBody(), `"amount": 1500`, `"amount": 1000001`, 1),
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid data",
		},
		{
			name:       "description too short",
			body:       strings.Replace(validTransactionBody(), `"description": "groceries for the week"`, `"description": "ab"`, 1),
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid data",
		},
		{
			name: "unknown account reference",
			body: validTransactionBody(),
			createFn: func(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
				return nil, fmt.Errorf("unknown account_id")
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid data",
		},
		{
			name: "store failure",
			body: validTransactionBody(),
			createFn: func(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
				return nil, fmt.Errorf("connection refused")
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to create transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTransactionRouter(&mockTransactionCommander{createFn: tt.createFn}, &mockTransactionQuerier{})

			req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError != "" {
				assert.Contains(t, w.Body.String(), tt.wantError)
			}
		})
	}
}

func TestCreateTransactionReferenceErrorNamesField(t *testing.T) {
	commands := &mockTransactionCommander{
		createFn: func(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
			return nil, fmt.Errorf("unknown payment_method_id")
		},
	}
	router := newTransactionRouter(commands, &mockTransactionQuerier{})

	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(validTransactionBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"payment_method_id"`)
	assert.Contains(t, w.Body.String(), `"type":"exists"`)
}

func TestUpdateTransaction(t *testing.T) {
	updated := &models.Transaction{ID: 5, Slug: "transaction_5", Amount: 2000}

	tests := []struct {
		name       string
		slug       string
		body       string
		updateFn   func(cqrs.UpdateTransactionCommand) (*models.Transaction, error)
		wantStatus int
		wantBody   string
	}{
		{
			name: "updated",
			slug: "transaction_5",
			body: validTransactionBody(),
			updateFn: func(cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
				return updated, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "not found",
			slug: "transaction_999",
			body: validTransactionBody(),
			updateFn: func(cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
				return nil, fmt.Errorf("transaction not found")
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"transaction not found"}`,
		},
		{
			name:       "slug too long",
			slug:       strings.Repeat("a", 101),
			body:       validTransactionBody(),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Slug is too long"}`,
		},
		{
			name: "store failure",
			slug: "transaction_5",
			body: validTransactionBody(),
			updateFn: func(cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
				return nil, fmt.Errorf("connection refused")
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTransactionRouter(&mockTransactionCommander{updateFn: tt.updateFn}, &mockTransactionQuerier{})

			req := httptest.NewRequest(http.MethodPatch, "/transactions/"+tt.slug, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestDeleteTransaction(t *testing.T) {
	tests := []struct {
		name       string
		deleteFn   func(cqrs.DeleteTransactionCommand) error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "deleted",
			deleteFn:   func(cmd cqrs.DeleteTransactionCommand) error { return nil },
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "not found",
			deleteFn:   func(cmd cqrs.DeleteTransactionCommand) error { return fmt.Errorf("transaction not found") },
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"transaction not found"}`,
		},
		{
			name:       "store failure",
			deleteFn:   func(cmd cqrs.DeleteTransactionCommand) error { return fmt.Errorf("connection refused") },
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTransactionRouter(&mockTransactionCommander{deleteFn: tt.deleteFn}, &mockTransactionQuerier{})

			req := httptest.NewRequest(http.MethodDelete, "/transactions/transaction_5", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestLatestTransactions(t *testing.T) {
	queries := &mockTransactionQuerier{
		latestFn: func(q cqrs.LatestTransactionsQuery) ([]models.Transaction, error) {
			return nil, nil
		},
	}
	router := newTransactionRouter(&mockTransactionCommander{}, queries)

	req := httptest.NewRequest(http.MethodGet, "/transactions/latest", nil)
	req.Header.Set("Authorization", bearerToken(t, 7, false))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"latest":[]}`, w.Body.String())
}
