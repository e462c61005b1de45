package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/dwdash/internal/chart"
	"github.com/dbsmedya/dwdash/internal/report"
	"github.com/dbsmedya/dwdash/internal/warehouse"
)

var fakePNG = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0}

type stubReport struct {
	id      string
	heading string
	err     error
	notice  string
	legend  []chart.LegendEntry
}

func (s *stubReport) ID() string      { return s.id }
func (s *stubReport) Heading() string { return s.heading }

func (s *stubReport) Run(context.Context, warehouse.Source) (*report.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &report.Result{
		ID:      s.id,
		Heading: s.heading,
		Chart:   fakePNG,
		Legend:  s.legend,
		Notice:  s.notice,
		Rows:    9,
		Table:   &report.Table{Header: []string{"Month", "Cost"}, Rows: [][]string{{"January", "1.00"}}},
	}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestServer(pingErr error) *Server {
	reports := []report.Report{
		&stubReport{id: "standard-cost", heading: "Standard Cost per Product per Month"},
		&stubReport{id: "department-geography", heading: "Distribution of Department Name by Geography",
			notice: "Countries are assigned at random", legend: []chart.LegendEntry{{Label: "Canada", Color: "#1f77b4"}}},
		&stubReport{id: "category-count", heading: "Product Category Name Count", err: errors.New("query dimcurrency: access denied")},
	}
	opts := Options{Title: "Data Visualization Dashboard", Warehouse: "mysql://db:3306/aw"}
	return NewServer(reports, report.NewRunner(nil, nil), stubPinger{err: pingErr}, opts, nil)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestIndex(t *testing.T) {
	rec := get(t, newTestServer(nil), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Data Visualization Dashboard</h1>")
	assert.Contains(t, body, "mysql://db:3306/aw")
	assert.Contains(t, body, `src="data:image/png;base64,`)
	assert.Contains(t, body, "Countries are assigned at random")
	assert.Contains(t, body, "background:#1f77b4")
	assert.Contains(t, body, `class="error">report category-count: query dimcurrency: access denied`)

	// Sections follow page order.
	first := strings.Index(body, "Standard Cost per Product per Month")
	second := strings.Index(body, "Distribution of Department Name by Geography")
	third := strings.Index(body, "Product Category Name Count")
	assert.True(t, first < second && second < third)
}

func TestChart(t *testing.T) {
	s := newTestServer(nil)

	rec := get(t, s, "/reports/standard-cost.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, fakePNG, rec.Body.Bytes())

	rec = get(t, s, "/reports/category-count.png")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "access denied")

	rec = get(t, s, "/reports/education-composition.png")
	assert.Equal(t, http.StatusNotFound, rec.Code, "registered but not enabled")
}

func TestTableAPI(t *testing.T) {
	s := newTestServer(nil)

	rec := get(t, s, "/api/reports/standard-cost")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body tableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "standard-cost", body.ID)
	assert.Equal(t, 9, body.Rows)
	require.NotNil(t, body.Table)
	assert.Equal(t, []string{"Month", "Cost"}, body.Table.Header)

	rec = get(t, s, "/api/reports/revenue")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown report")

	rec = get(t, s, "/api/reports/category-count")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = get(t, newTestServer(errors.New("connection refused")), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListenAndServe_Shutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer(nil).ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
