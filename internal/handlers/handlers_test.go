package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/handlers"
	"github.com/ammerola/wms-ledger/internal/pkg/config"
	"github.com/ammerola/wms-ledger/test/helpers"
	"github.com/ammerola/wms-ledger/test/mocks"
)

type testAPI struct {
	movement  *mocks.MockMovementService
	intake    *mocks.MockIntakeService
	locations *mocks.MockLocationService
	handler   http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := helpers.TestLogger()

	api := &testAPI{
		movement:  mocks.NewMockMovementService(ctrl),
		intake:    mocks.NewMockIntakeService(ctrl),
		locations: mocks.NewMockLocationService(ctrl),
	}
	router := &handlers.Router{
		Transactions: handlers.NewTransactionHandler(api.movement, log),
		Loads:        handlers.NewLoadHandler(api.intake, log),
		Locations:    handlers.NewLocationHandler(api.locations, log),
	}
	api.handler = router.Handler(&config.Config{}, log)
	return api
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}, user *uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("X-User-ID", user.String())
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	user := uuid.New()
	packageID := uuid.New()
	source := uuid.New()
	dest := uuid.New()
	committed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	outbound := map[string]interface{}{
		"transaction_type": "OUTBOUND",
		"package_id":       packageID.String(),
		"source_shelf_id":  source.String(),
		"quantity":         4,
	}

	tests := []struct {
		name           string
		body           interface{}
		user           *uuid.UUID
		setupMocks     func(m *mocks.MockMovementService)
		expectedStatus int
		expectedCode   domain.Code
	}{
		{
			name: "commits_outbound",
			body: outbound,
			user: &user,
			setupMocks: func(m *mocks.MockMovementService) {
				m.EXPECT().
					ProcessTransaction(gomock.Any(), domain.MovementRequest{
						Type:          domain.TransactionOutbound,
						PackageID:     packageID,
						SourceShelfID: source,
						Quantity:      4,
						ActingUserID:  user,
					}).
					Return(&domain.MovementResult{TransactionID: uuid.New(), Sequence: 7, CommittedAt: committed}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "commits_transfer_with_destination",
			body: map[string]interface{}{
				"transaction_type":     "INTERNAL_TRANSFER",
				"package_id":           packageID.String(),
				"source_shelf_id":      source.String(),
				"destination_shelf_id": dest.String(),
				"quantity":             10,
			},
			user: &user,
			setupMocks: func(m *mocks.MockMovementService) {
				m.EXPECT().
					ProcessTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req domain.MovementRequest) (*domain.MovementResult, error) {
						require.NotNil(t, req.DestinationShelfID)
						assert.Equal(t, dest, *req.DestinationShelfID)
						return &domain.MovementResult{TransactionID: uuid.New(), Sequence: 8}, nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing_acting_user",
			body:           outbound,
			setupMocks:     func(m *mocks.MockMovementService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   domain.CodeInvalidRequest,
		},
		{
			name:           "malformed_json",
			body:           `{"transaction_type":`,
			user:           &user,
			setupMocks:     func(m *mocks.MockMovementService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   domain.CodeInvalidRequest,
		},
		{
			name: "unknown_transaction_type",
			body: map[string]interface{}{
				"transaction_type": "INBOUND",
				"package_id":       packageID.String(),
				"source_shelf_id":  source.String(),
				"quantity":         1,
			},
			user:           &user,
			setupMocks:     func(m *mocks.MockMovementService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   domain.CodeInvalidRequest,
		},
		{
			name: "zero_quantity",
			body: map[string]interface{}{
				"transaction_type": "OUTBOUND",
				"package_id":       packageID.String(),
				"source_shelf_id":  source.String(),
				"quantity":         0,
			},
			user:           &user,
			setupMocks:     func(m *mocks.MockMovementService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   domain.CodeInvalidRequest,
		},
		{
			name: "insufficient_quantity",
			body: outbound,
			user: &user,
			setupMocks: func(m *mocks.MockMovementService) {
				m.EXPECT().ProcessTransaction(gomock.Any(), gomock.Any()).
					Return(nil, domain.NewError(domain.CodeInsufficientQuantity, "not enough").
						With("requested", 11).With("available", 10))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   domain.CodeInsufficientQuantity,
		},
		{
			name: "placement_not_found",
			body: outbound,
			user: &user,
			setupMocks: func(m *mocks.MockMovementService) {
				m.EXPECT().ProcessTransaction(gomock.Any(), gomock.Any()).
					Return(nil, domain.NewError(domain.CodePlacementNotFound, "no placement"))
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   domain.CodePlacementNotFound,
		},
		{
			name: "contention_exhausted",
			body: outbound,
			user: &user,
			setupMocks: func(m *mocks.MockMovementService) {
				m.EXPECT().ProcessTransaction(gomock.Any(), gomock.Any()).
					Return(nil, domain.NewError(domain.CodeConcurrentModification, "retry later"))
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   domain.CodeConcurrentModification,
		},
		{
			name: "persistence_failure",
			body: outbound,
			user: &user,
			setupMocks: func(m *mocks.MockMovementService) {
				m.EXPECT().ProcessTransaction(gomock.Any(), gomock.Any()).
					Return(nil, domain.NewError(domain.CodePersistenceFailure, "store down"))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   domain.CodePersistenceFailure,
		},
		{
			name: "timeout",
			body: outbound,
			user: &user,
			setupMocks: func(m *mocks.MockMovementService) {
				m.EXPECT().ProcessTransaction(gomock.Any(), gomock.Any()).
					Return(nil, domain.NewError(domain.CodeTimeout, "deadline exceeded"))
			},
			expectedStatus: http.StatusGatewayTimeout,
			expectedCode:   domain.CodeTimeout,
		},
		{
			name: "unclassified_error",
			body: outbound,
			user: &user,
			setupMocks: func(m *mocks.MockMovementService) {
				m.EXPECT().ProcessTransaction(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			tt.setupMocks(api.movement)

			w := api.do(t, http.MethodPost, "/api/v1/transactions", tt.body, tt.user)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				resp := decodeError(t, w)
				assert.Equal(t, tt.expectedCode, resp.Code)
				assert.NotEmpty(t, resp.Error)
				assert.NotEmpty(t, resp.RequestID)
			}
		})
	}
}

func TestTransactionHandler_RejectionDetails(t *testing.T) {
	api := newTestAPI(t)
	user := uuid.New()

	api.movement.EXPECT().ProcessTransaction(gomock.Any(), gomock.Any()).
		Return(nil, domain.NewError(domain.CodeCapacityExceeded, "shelf weight limit exceeded").
			With("weight", "6").With("max_weight", "5"))

	w := api.do(t, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"transaction_type":     "INTERNAL_TRANSFER",
		"package_id":           uuid.NewString(),
		"source_shelf_id":      uuid.NewString(),
		"destination_shelf_id": uuid.NewString(),
		"quantity":             3,
	}, &user)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "6", resp.Details["weight"])
	assert.Equal(t, "5", resp.Details["max_weight"])
}

func TestTransactionHandler_ListPackageTransactions(t *testing.T) {
	packageID := uuid.New()
	history := []domain.Transaction{
		{ID: uuid.New(), Sequence: 2, Type: domain.TransactionOutbound, PackageID: packageID, Quantity: 4},
		{ID: uuid.New(), Sequence: 1, Type: domain.TransactionInternalTransfer, PackageID: packageID, Quantity: 6},
	}

	tests := []struct {
		name           string
		path           string
		setupMocks     func(m *mocks.MockMovementService)
		expectedStatus int
		expectedCount  int
	}{
		{
			name: "default_limit",
			path: "/api/v1/packages/" + packageID.String() + "/transactions",
			setupMocks: func(m *mocks.MockMovementService) {
				m.EXPECT().History(gomock.Any(), packageID, 50).Return(history, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name: "explicit_limit",
			path: "/api/v1/packages/" + packageID.String() + "/transactions?limit=1",
			setupMocks: func(m *mocks.MockMovementService) {
				m.EXPECT().History(gomock.Any(), packageID, 1).Return(history[:1], nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name: "limit_is_capped",
			path: "/api/v1/packages/" + packageID.String() + "/transactions?limit=100000",
			setupMocks: func(m *mocks.MockMovementService) {
				m.EXPECT().History(gomock.Any(), packageID, 500).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name:           "invalid_limit",
			path:           "/api/v1/packages/" + packageID.String() + "/transactions?limit=-3",
			setupMocks:     func(m *mocks.MockMovementService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid_package_id",
			path:           "/api/v1/packages/nope/transactions",
			setupMocks:     func(m *mocks.MockMovementService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			tt.setupMocks(api.movement)

			w := api.do(t, http.MethodGet, tt.path, nil, nil)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var resp struct {
					Transactions []domain.Transaction `json:"transactions"`
					Count        int                  `json:"count"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedCount, resp.Count)
				assert.Len(t, resp.Transactions, tt.expectedCount)
			}
		})
	}
}

func TestLoadHandler_CreateLoad(t *testing.T) {
	user := uuid.New()
	supplier := uuid.New()
	product := uuid.New()
	shelf := uuid.New()

	validBody := func() map[string]interface{} {
		return map[string]interface{}{
			"supplier_id":     supplier.String(),
			"document_number": "NF-1001",
			"declared_value":  "1500.00",
			"packages": []map[string]interface{}{{
				"product_id":      product.String(),
				"quantity":        10,
				"weight":          "0.5",
				"stackable":       true,
				"package_type":    "BX",
				"target_shelf_id": shelf.String(),
			}},
		}
	}

	tests := []struct {
		name           string
		body           func() map[string]interface{}
		user           *uuid.UUID
		setupMocks     func(m *mocks.MockIntakeService)
		expectedStatus int
	}{
		{
			name: "receives_load",
			body: validBody,
			user: &user,
			setupMocks: func(m *mocks.MockIntakeService) {
				m.EXPECT().ReceiveLoad(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req domain.LoadRequest) (*domain.LoadReceipt, error) {
						assert.Equal(t, user, req.ActingUserID)
						assert.Equal(t, "NF-1001", req.DocumentNumber)
						require.Len(t, req.Packages, 1)
						assert.Equal(t, shelf, req.Packages[0].TargetShelfID)
						assert.Equal(t, domain.PackageTypeBox, req.Packages[0].Type)
						assert.Equal(t, "0.5", req.Packages[0].Weight.String())
						return &domain.LoadReceipt{LoadID: uuid.New(), PackageIDs: []uuid.UUID{uuid.New()}}, nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "requires_acting_user",
			body:           validBody,
			setupMocks:     func(m *mocks.MockIntakeService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "requires_packages",
			body: func() map[string]interface{} {
				b := validBody()
				b["packages"] = []map[string]interface{}{}
				return b
			},
			user:           &user,
			setupMocks:     func(m *mocks.MockIntakeService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "rejects_bad_package_type",
			body: func() map[string]interface{} {
				b := validBody()
				b["packages"].([]map[string]interface{})[0]["package_type"] = "XX"
				return b
			},
			user:           &user,
			setupMocks:     func(m *mocks.MockIntakeService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown_shelf",
			body: validBody,
			user: &user,
			setupMocks: func(m *mocks.MockIntakeService) {
				m.EXPECT().ReceiveLoad(gomock.Any(), gomock.Any()).
					Return(nil, domain.NewError(domain.CodeNotFound, "shelf not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "duplicate_placement",
			body: validBody,
			user: &user,
			setupMocks: func(m *mocks.MockIntakeService) {
				m.EXPECT().ReceiveLoad(gomock.Any(), gomock.Any()).
					Return(nil, domain.NewError(domain.CodeDuplicatePlacement, "placement exists"))
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			tt.setupMocks(api.intake)

			w := api.do(t, http.MethodPost, "/api/v1/loads", tt.body(), tt.user)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusCreated {
				var receipt domain.LoadReceipt
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipt))
				assert.Equal(t, "/api/v1/loads/"+receipt.LoadID.String(), w.Header().Get("Location"))
			}
		})
	}
}

func TestLoadHandler_GetAndUpdateStatus(t *testing.T) {
	user := uuid.New()
	loadID := uuid.New()
	load := &domain.Load{ID: loadID, DocumentNumber: "NF-1", Status: domain.LoadStatusProcessing}

	t.Run("get_load", func(t *testing.T) {
		api := newTestAPI(t)
		api.intake.EXPECT().GetLoad(gomock.Any(), loadID).Return(load, nil)

		w := api.do(t, http.MethodGet, "/api/v1/loads/"+loadID.String(), nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got domain.Load
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, domain.LoadStatusProcessing, got.Status)
	})

	t.Run("get_missing_load", func(t *testing.T) {
		api := newTestAPI(t)
		api.intake.EXPECT().GetLoad(gomock.Any(), loadID).
			Return(nil, domain.NewError(domain.CodeNotFound, "load not found"))

		w := api.do(t, http.MethodGet, "/api/v1/loads/"+loadID.String(), nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update_status", func(t *testing.T) {
		api := newTestAPI(t)
		api.intake.EXPECT().UpdateLoadStatus(gomock.Any(), loadID, domain.LoadStatusStored).
			Return(&domain.Load{ID: loadID, Status: domain.LoadStatusStored}, nil)

		w := api.do(t, http.MethodPatch, "/api/v1/loads/"+loadID.String()+"/status",
			map[string]string{"status": "stored"}, &user)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("invalid_transition", func(t *testing.T) {
		api := newTestAPI(t)
		api.intake.EXPECT().UpdateLoadStatus(gomock.Any(), loadID, domain.LoadStatusReceived).
			Return(nil, domain.NewError(domain.CodeInvalidStatusTransition, "cannot go back"))

		w := api.do(t, http.MethodPatch, "/api/v1/loads/"+loadID.String()+"/status",
			map[string]string{"status": "received"}, &user)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown_status", func(t *testing.T) {
		api := newTestAPI(t)
		w := api.do(t, http.MethodPatch, "/api/v1/loads/"+loadID.String()+"/status",
			map[string]string{"status": "lost"}, &user)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update_requires_acting_user", func(t *testing.T) {
		api := newTestAPI(t)
		w := api.do(t, http.MethodPatch, "/api/v1/loads/"+loadID.String()+"/status",
			map[string]string{"status": "stored"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLocationHandler(t *testing.T) {
	productID := uuid.New()
	packageID := uuid.New()

	t.Run("product_locations_with_total", func(t *testing.T) {
		api := newTestAPI(t)
		api.locations.EXPECT().LocationsForProduct(gomock.Any(), productID).Return([]domain.ProductLocation{
			{PackageID: packageID, ProductID: productID, RackName: "A", ShelfPosition: "01", Quantity: 6},
			{PackageID: packageID, ProductID: productID, RackName: "A", ShelfPosition: "02", Quantity: 4},
		}, nil)

		w := api.do(t, http.MethodGet, "/api/v1/products/"+productID.String()+"/locations", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Locations     []domain.ProductLocation `json:"locations"`
			TotalQuantity int                      `json:"total_quantity"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Locations, 2)
		assert.Equal(t, 10, resp.TotalQuantity)
	})

	t.Run("product_without_stock_is_empty_list", func(t *testing.T) {
		api := newTestAPI(t)
		api.locations.EXPECT().LocationsForProduct(gomock.Any(), productID).Return(nil, nil)

		w := api.do(t, http.MethodGet, "/api/v1/products/"+productID.String()+"/locations", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"locations":[]`)
	})

	t.Run("package_summary", func(t *testing.T) {
		api := newTestAPI(t)
		api.locations.EXPECT().PackageSummary(gomock.Any(), packageID).Return(&domain.PackageSummary{
			Package:      domain.Package{ID: packageID, OriginalQuantity: 10, Deducted: 4},
			Conservation: domain.Conservation{PackageID: packageID, Original: 10, Placed: 6, Deducted: 4},
			Balanced:     true,
		}, nil)

		w := api.do(t, http.MethodGet, "/api/v1/packages/"+packageID.String(), nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var summary domain.PackageSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.True(t, summary.Balanced)
		assert.Equal(t, 6, summary.Conservation.Placed)
	})

	t.Run("package_not_found", func(t *testing.T) {
		api := newTestAPI(t)
		api.locations.EXPECT().PackageSummary(gomock.Any(), packageID).
			Return(nil, domain.NewError(domain.CodeNotFound, "package not found"))

		w := api.do(t, http.MethodGet, "/api/v1/packages/"+packageID.String(), nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRouter_MalformedUserHeader(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString(`{}`))
	req.Header.Set("X-User-ID", "not-a-uuid")
	w := httptest.NewRecorder()
	api.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodDelete, "/api/v1/transactions", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
