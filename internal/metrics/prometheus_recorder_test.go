package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncPagesEmitted("parent")
	pr.IncPagesEmitted("child")
	pr.IncPagesEmitted("child")
	pr.IncRuleSkipped(SkipMissingTemplate)
	pr.ObservePassDuration(120 * time.Millisecond)
	pr.IncPassOutcome(OutcomeWarning)
	pr.ObserveSinkWrite(true)

	require.InDelta(t, 2, testutil.ToFloat64(pr.pagesEmitted.WithLabelValues("child")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.rulesSkipped.WithLabelValues(string(SkipMissingTemplate))), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncPagesEmitted("parent")
	pr.IncPassOutcome(OutcomeSuccess)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncPassOutcome(OutcomeSuccess)

	path := filepath.Join(t.TempDir(), "pagegen.prom")
	require.NoError(t, WriteTextfile(path, reg))

	// #nosec G304 -- path is controlled by test.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `pagegen_pass_outcomes_total{outcome="success"} 1`)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncPagesEmitted("parent")

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "pagegen_pages_emitted_total"))
}

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)
