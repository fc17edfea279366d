package backend_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"orderwizard/internal/adapters/out/backend"
	"orderwizard/internal/core/domain/model/kernel"
	"orderwizard/internal/core/domain/model/order"
	"orderwizard/internal/core/domain/model/wizard"
	"orderwizard/internal/core/ports"
	"orderwizard/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateways(t *testing.T, h http.HandlerFunc) ports.Gateways {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := backend.NewClient(backend.Config{BaseURL: srv.URL, Timeout: time.Second},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c.Gateways()
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewClient_Validation(t *testing.T) {
	_, err := backend.NewClient(backend.Config{}, nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = backend.NewClient(backend.Config{BaseURL: "not a url"}, nil)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	c, err := backend.NewClient(backend.Config{BaseURL: "http://backend:8080/"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestClient_StatusMapping(t *testing.T) {
	sessionID := kernel.NewUUID()

	tests := []struct {
		name   string
		status int
		body   any
		call   func(g ports.Gateways) error
		want   error
		field  string
	}{
		{
			name:   "server error is remote unavailable",
			status: http.StatusBadGateway,
			call: func(g ports.Gateways) error {
				_, err := g.Clients.GetByID(t.Context(), kernel.NewUUID())
				return err
			},
			want: errs.ErrRemoteUnavailable,
		},
		{
			name:   "throttling is remote unavailable",
			status: http.StatusTooManyRequests,
			call: func(g ports.Gateways) error {
				_, err := g.PriceList.GetCategories(t.Context(), true)
				return err
			},
			want: errs.ErrRemoteUnavailable,
		},
		{
			name:   "missing record",
			status: http.StatusNotFound,
			body:   map[string]string{"message": "no such client"},
			call: func(g ports.Gateways) error {
				_, err := g.Clients.GetByID(t.Context(), kernel.NewUUID())
				return err
			},
			want: errs.ErrObjectNotFound,
		},
		{
			name:   "missing session",
			status: http.StatusNotFound,
			call: func(g ports.Gateways) error {
				return g.Sessions.CompleteStage(t.Context(), sessionID, wizard.ClientAndBranch)
			},
			want: errs.ErrFatalSession,
		},
		{
			name:   "expired session",
			status: http.StatusGone,
			call: func(g ports.Gateways) error {
				_, err := g.Branches.ListForSession(t.Context(), sessionID)
				return err
			},
			want: errs.ErrFatalSession,
		},
		{
			name:   "duplicate phone",
			status: http.StatusConflict,
			body:   map[string]string{"message": "phone taken", "field": "phone", "value": "+380501112233"},
			call: func(g ports.Gateways) error {
				_, err := g.Clients.GetByPhone(t.Context(), "+380501112233")
				return err
			},
			want:  errs.ErrConflict,
			field: "phone",
		},
		{
			name:   "rejected payload",
			status: http.StatusUnprocessableEntity,
			body:   map[string]string{"message": "too large", "field": "prepaymentAmount"},
			call: func(g ports.Gateways) error {
				_, err := g.Payments.Calculate(t.Context(), sessionID, order.PaymentCash, decimal.NewFromInt(10))
				return err
			},
			want:  errs.ErrValueIsInvalid,
			field: "prepaymentAmount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGateways(t, func(w http.ResponseWriter, _ *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(t, w, tt.status, tt.body)
			})

			err := tt.call(g)
			require.ErrorIs(t, err, tt.want)
			if tt.field != "" {
				field, ok := errs.FieldOf(err)
				require.True(t, ok)
				assert.Equal(t, tt.field, field)
			}
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := backend.NewClient(backend.Config{BaseURL: srv.URL}, nil)
	require.NoError(t, err)
	srv.Close()

	_, err = c.Gateways().Sessions.Start(t.Context())
	require.ErrorIs(t, err, errs.ErrRemoteUnavailable)
}

func TestClient_ClientSearch(t *testing.T) {
	id := kernel.NewUUID()
	g := newGateways(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/clients/search", r.URL.Path)
		assert.Equal(t, "Шевч", r.URL.Query().Get("term"))
		assert.Equal(t, "20", r.URL.Query().Get("size"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"content": []map[string]any{{"id": id, "lastName": "Шевченко", "firstName": "Тарас", "phone": "+380501112233"}},
		})
	})

	got, err := g.Clients.Search(t.Context(), "Шевч", 0, 20)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, id.IsEqual(got[0].ID))
	assert.Equal(t, "Шевченко Тарас", got[0].FullName())
}

func TestClient_SessionLifecycle(t *testing.T) {
	sessionID := kernel.NewUUID()
	var (
		mu    sync.Mutex
		calls []string
	)
	g := newGateways(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()
		switch r.Method {
		case http.MethodPost:
			if r.URL.Path == "/api/order-wizard/sessions" {
				writeJSON(t, w, http.StatusCreated, map[string]any{"sessionId": sessionID})
				return
			}
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	got, err := g.Sessions.Start(t.Context())
	require.NoError(t, err)
	assert.True(t, sessionID.IsEqual(got))

	require.NoError(t, g.Sessions.CompleteStage(t.Context(), got, wizard.Items))
	require.NoError(t, g.Sessions.Close(t.Context(), got))

	mu.Lock()
	defer mu.Unlock()
	base := "/api/order-wizard/sessions"
	assert.Equal(t, []string{
		"POST " + base,
		"POST " + base + "/" + got.String() + "/stages/" + wizard.Items.String() + "/complete",
		"DELETE " + base + "/" + got.String(),
	}, calls)
}

func TestClient_ReceiptNumber(t *testing.T) {
	sessionID := kernel.NewUUID()
	g := newGateways(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "KV01", body["branchCode"])
		writeJSON(t, w, http.StatusOK, map[string]string{"receiptNumber": "KV01-000123"})
	})

	got, err := g.Branches.GenerateReceiptNumber(t.Context(), sessionID, "KV01")
	require.NoError(t, err)
	assert.Equal(t, "KV01-000123", got)
}

func TestClient_FinalPrice(t *testing.T) {
	g := newGateways(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Items []struct {
				Quantity decimal.Decimal `json:"quantity"`
			} `json:"items"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Items, 1)
		assert.True(t, decimal.NewFromInt(2).Equal(body.Items[0].Quantity))
		writeJSON(t, w, http.StatusOK, map[string]any{"baseTotal": "2000", "finalTotal": "2400.50"})
	})

	got, err := g.Pricing.CalculateFinalPrice(t.Context(), []ports.PriceLine{{
		PriceListItemID: kernel.NewUUID(),
		Quantity:        decimal.NewFromInt(2),
	}})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2000).Equal(got.Base))
	assert.True(t, decimal.RequireFromString("2400.50").Equal(got.Final))
}
