package who

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/healthrag/internal/core/domain"
)

const catalogJSON = `{
  "@odata.context": "https://ghoapi.azureedge.net/api/$metadata#Indicator",
  "value": [
    {"IndicatorCode": "NCD_GLUC_04", "IndicatorName": "Raised fasting blood glucose (age-standardized estimate)", "Language": "EN"},
    {"IndicatorCode": "MALARIA_EST_DEATHS", "IndicatorName": "Estimated number of malaria deaths", "Language": "EN"},
    {"IndicatorCode": "MALARIA_EST_CASES", "IndicatorName": "Estimated number of malaria cases", "Language": "EN"},
    {"IndicatorCode": "MALARIA_ITN", "IndicatorName": "Use of insecticide-treated nets against malaria", "Language": "EN"},
    {"IndicatorCode": "MALARIA002", "IndicatorName": "Malaria confirmed cases", "Language": "EN"},
    {"IndicatorCode": "MDG_0000000020", "IndicatorName": "Incidence of tuberculosis (per 100 000 population per year)", "Language": "EN"},
    {"IndicatorCode": "FR_MAL", "IndicatorName": "Paludisme", "Language": "FR"},
    {"IndicatorCode": "EMPTY", "IndicatorName": "", "Language": "EN"}
  ]
}`

func newCatalogServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/Indicator", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestSource_Name(t *testing.T) {
	assert.Equal(t, domain.SourceAuthority, NewSource(Config{}).Name())
}

func TestSource_Lookup_CatalogMatch(t *testing.T) {
	server, _ := newCatalogServer(t, http.StatusOK, catalogJSON)
	src := NewSource(Config{BaseURL: server.URL})

	out, err := src.Lookup(context.Background(), "malaria")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFound, out.Kind)
	assert.Contains(t, out.Text, "Global health indicators tracked for malaria:")
	assert.Contains(t, out.Text, "Estimated number of malaria deaths (MALARIA_EST_DEATHS)")
	assert.NotContains(t, out.Text, "Paludisme")
	assert.NotContains(t, out.Text, "Malaria confirmed cases", "limited to the top 3")
}

func TestSource_Lookup_SynonymExpansion(t *testing.T) {
	server, _ := newCatalogServer(t, http.StatusOK, catalogJSON)
	src := NewSource(Config{BaseURL: server.URL})

	out, err := src.Lookup(context.Background(), "diabetes")

	require.NoError(t, err)
	assert.Contains(t, out.Text, "NCD_GLUC_04")
}

func TestSource_Lookup_FactSheetTier(t *testing.T) {
	server, _ := newCatalogServer(t, http.StatusOK, `{"value":[]}`)
	src := NewSource(Config{BaseURL: server.URL})

	out, err := src.Lookup(context.Background(), "asthma")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFound, out.Kind)
	assert.Contains(t, out.Text, "Asthma is a chronic lung disease")
}

func TestSource_Lookup_GenericTier(t *testing.T) {
	server, _ := newCatalogServer(t, http.StatusOK, `{"value":[]}`)
	src := NewSource(Config{BaseURL: server.URL})

	out, err := src.Lookup(context.Background(), "gout")

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFound, out.Kind)
	assert.Contains(t, out.Text, "No condition-specific public health guidance is available for gout")
}

func TestSource_Lookup_CatalogCached(t *testing.T) {
	server, calls := newCatalogServer(t, http.StatusOK, catalogJSON)
	src := NewSource(Config{BaseURL: server.URL, CatalogTTL: time.Hour})
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	src.now = func() time.Time { return now }

	_, err := src.Lookup(context.Background(), "malaria")
	require.NoError(t, err)
	_, err = src.Lookup(context.Background(), "tuberculosis")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	now = now.Add(2 * time.Hour)
	_, err = src.Lookup(context.Background(), "malaria")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSource_Lookup_StaleCatalogOnRefreshFailure(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(catalogJSON))
	}))
	defer server.Close()

	src := NewSource(Config{BaseURL: server.URL, CatalogTTL: time.Minute})
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	src.now = func() time.Time { return now }

	_, err := src.Lookup(context.Background(), "malaria")
	require.NoError(t, err)

	fail.Store(true)
	now = now.Add(time.Hour)
	out, err := src.Lookup(context.Background(), "malaria")

	require.NoError(t, err)
	assert.Contains(t, out.Text, "MALARIA_EST_DEATHS")
}

func TestSource_Lookup_CatalogUnavailable(t *testing.T) {
	server, _ := newCatalogServer(t, http.StatusServiceUnavailable, "down")
	src := NewSource(Config{BaseURL: server.URL})

	_, err := src.Lookup(context.Background(), "malaria")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSourceNetwork))
}

func TestSource_Lookup_BadCatalog(t *testing.T) {
	server, _ := newCatalogServer(t, http.StatusOK, "<html></html>")
	src := NewSource(Config{BaseURL: server.URL})

	_, err := src.Lookup(context.Background(), "malaria")

	assert.True(t, errors.Is(err, domain.ErrSourceNetwork))
}

func TestSource_Lookup_Cancelled(t *testing.T) {
	server, _ := newCatalogServer(t, http.StatusOK, catalogJSON)
	src := NewSource(Config{BaseURL: server.URL})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Lookup(ctx, "malaria")

	assert.True(t, errors.Is(err, context.Canceled))
}
