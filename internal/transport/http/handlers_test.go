package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"prodboard/internal/composition"
	"prodboard/internal/config"
	apperrors "prodboard/internal/errors"
	mw "prodboard/internal/middleware"
	"prodboard/internal/repository"
	"prodboard/internal/services"
	"prodboard/internal/shared/testutil"
	"prodboard/internal/twin"
	"prodboard/internal/view"
	"prodboard/pkg/contracts/domain"
)

// stubSource serves a fixed snapshot and counts reloads
type stubSource struct {
	snap      *repository.Snapshot
	reloadErr error
	reloads   atomic.Int32
}

func (s *stubSource) Snapshot() *repository.Snapshot { return s.snap }

func (s *stubSource) Reload(ctx context.Context) (*repository.Snapshot, error) {
	s.reloads.Add(1)
	if s.reloadErr != nil {
		return nil, s.reloadErr
	}
	return s.snap, nil
}

func fixture() *repository.Snapshot {
	var records []domain.ProductionRecord
	records = append(records, testutil.Order("2023-06-01").Qty(400, 400).Family("CADERNOS").Build())
	records = append(records, testutil.Order("2024-01-10").Qty(100, 150).Repeat(2)...)
	records = append(records, testutil.Order("2024-02-10").Qty(300, 300).Responsible("BIA").Team("MESA 2").Build())

	return &repository.Snapshot{
		Records:  records,
		Columns:  []string{"DATA_DE_ENTREGA", "QTD"},
		Capacity: []domain.CapacityRecord{testutil.Capacity("2024-01", 10, testutil.Float(5), testutil.Float(9))},
		Sectors: map[domain.Sector]*domain.SectorCostTable{
			domain.SectorLabor: testutil.SectorTable(domain.SectorLabor, "2024-01", map[string][]float64{domain.LineTotal: {1000, 2000}}),
		},
		Composition: &domain.CompositionTables{
			Papers: []domain.PaperPurchase{{Paper: "Offset 90g", Sheets: decimal.NewFromInt(500), Value: decimal.NewFromInt(100)}},
			Usage: map[domain.Component][]domain.ComponentUsage{
				domain.ComponentCore: {{Component: domain.ComponentCore, Product: "AG-001", Material: "Offset 90g", QuantityPerUnit: decimal.NewFromInt(10), PrintingCost: decimal.NewFromInt(1)}},
			},
		},
		LoadedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

type testServer struct {
	router http.Handler
	source *stubSource
}

func newTestServer(t *testing.T, snap *repository.Snapshot) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eh := apperrors.NewErrorHandler(logger, false)
	v := mw.NewValidator()
	source := &stubSource{snap: snap}

	engine := view.NewEngine(twin.NewProjector(twin.DefaultParams(), logger), config.Default().Dashboard, nil, logger)
	dashboard := services.NewDashboardService(source, engine, logger)
	comp := services.NewCompositionService(source, composition.NewComposer(nil, logger), logger)
	health := NewHealthHandler(services.NewHealthService("v-test", "", source, logger), logger)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.NotFound(eh.NotFound)
	r.MethodNotAllowed(eh.MethodNotAllowed)
	r.Get("/api/health", health.HealthCheck)
	r.Get("/api/version", health.Version)
	r.Mount("/api/dashboard", NewDashboardHandler(dashboard, v, logger, eh).Routes())
	r.Mount("/api/composition", NewCompositionHandler(comp, v, logger, eh).Routes())
	r.Mount("/api/schema", NewSchemaHandler().Routes())
	r.Handle("/metrics", NewMetricsHandler(nil, eh))
	return &testServer{router: r, source: source}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t, fixture())

	rec := s.do(t, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "v-test", body["version"])
	snapshot := body["snapshot"].(map[string]interface{})
	assert.Equal(t, true, snapshot["loaded"])
	assert.Equal(t, float64(4), snapshot["records"])

	rec = s.do(t, http.MethodGet, "/api/version", "")
	assert.Equal(t, "v-test", decode(t, rec)["version"])
}

func TestDashboardHandler_Options(t *testing.T) {
	s := newTestServer(t, fixture())

	rec := s.do(t, http.MethodGet, "/api/dashboard/options?years=2024", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, []interface{}{float64(2023), float64(2024)}, body["years"])
	assert.Equal(t, []interface{}{float64(1), float64(2)}, body["months"])

	rec = s.do(t, http.MethodGet, "/api/dashboard/options?months=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandler_View(t *testing.T) {
	s := newTestServer(t, fixture())

	t.Run("filtered weighted view", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/dashboard/view",
			`{"filters":{"years":{"active":true,"values":[2024]}},"metric":"weighted"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode(t, rec)
		assert.Equal(t, "weighted", body["metric"])
		assert.Equal(t, float64(3), body["orders"])
		general := body["general"].(map[string]interface{})
		assert.Equal(t, float64(600), general["total"])
		assert.NotNil(t, body["projection"])
	})

	t.Run("empty body uses defaults", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/dashboard/view", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "raw", decode(t, rec)["metric"])
	})

	t.Run("projection inputs validated", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/dashboard/view",
			`{"projection":{"inputs":[{"table_headcount":0,"clt_headcount":0,"working_days":22,"difficulty":1}]}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		errs := body["errors"].([]interface{})
		require.Len(t, errs, 1)
		assert.Equal(t, "table_headcount", errs[0].(map[string]interface{})["field"])
	})

	t.Run("unknown metric", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/dashboard/view", `{"metric":"gross"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/dashboard/view", `{"metric":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDashboardHandler_NotLoaded(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/dashboard/view", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "LOAD_FATAL", decode(t, rec)["error_type"])

	rec = s.do(t, http.MethodGet, "/api/health", "")
	assert.Equal(t, "degraded", decode(t, rec)["status"])
}

func TestDashboardHandler_Reload(t *testing.T) {
	s := newTestServer(t, fixture())

	rec := s.do(t, http.MethodPost, "/api/dashboard/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["loaded"])
	assert.Equal(t, int32(1), s.source.reloads.Load())

	s.source.reloadErr = apperrors.NewLoadFatalError("orders", assert.AnError)
	rec = s.do(t, http.MethodPost, "/api/dashboard/reload", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "orders", decode(t, rec)["source"])
}

func TestDashboardHandler_Diagnostic(t *testing.T) {
	s := newTestServer(t, fixture())

	rec := s.do(t, http.MethodGet, "/api/dashboard/diagnostic", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(4), body["rows"])
	assert.Equal(t, float64(2), body["columns"])
	assert.Equal(t, []interface{}{"DATA_DE_ENTREGA", "QTD"}, body["column_names"])
}

func TestDashboardHandler_Export(t *testing.T) {
	s := newTestServer(t, fixture())

	t.Run("csv", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/dashboard/export.csv?table=lideres&years=2024", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "prodboard_lideres.csv")
		assert.Contains(t, rec.Body.String(), "ANA,200.00,2,100.00")
		assert.Contains(t, rec.Body.String(), "BIA,300.00,1,300.00")
	})

	t.Run("xlsx", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/dashboard/export.xlsx", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "prodboard.xlsx")

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		assert.Contains(t, f.GetSheetList(), "producao_diaria")
	})

	t.Run("unknown table", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/dashboard/export.csv?table=nope", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/dashboard/export.pdf", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad metric", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/dashboard/export.csv?metric=gross", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCompositionHandler(t *testing.T) {
	s := newTestServer(t, fixture())

	rec := s.do(t, http.MethodPost, "/api/composition/quote", `{"product":"AG-001","order_quantity":100}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "3", body["unit_cost"])
	assert.Equal(t, "300", body["order_total"])

	rec = s.do(t, http.MethodPost, "/api/composition/quote", `{"product":"AG-001","order_quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/composition/quote", `{"order_quantity":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/composition/quote", `{"product":"XX-999","order_quantity":5}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/composition/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"AG-001"}, decode(t, rec)["products"])
}

func TestSchemaHandler(t *testing.T) {
	s := newTestServer(t, fixture())

	rec := s.do(t, http.MethodGet, "/api/schema/projection-input", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	props := body["properties"].(map[string]interface{})
	assert.Contains(t, props, "table_headcount")
	assert.Contains(t, props, "difficulty")
	assert.Equal(t, float64(1), props["table_headcount"].(map[string]interface{})["minimum"])

	rec = s.do(t, http.MethodGet, "/api/schema/view-request", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode(t, rec)["properties"], "filters")
}

func TestMetricsHandler_Disabled(t *testing.T) {
	s := newTestServer(t, fixture())
	rec := s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, fixture())
	rec := s.do(t, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["trace_id"])
}
