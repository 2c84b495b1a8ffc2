package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_CountsOutcomes(t *testing.T) {
	r := New()
	r.ResultCreated(100)
	r.ResultCreated(33)
	r.ResultRejected()
	r.ResultFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Counter(OutcomeCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Counter(OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Counter(OutcomeFailed)))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ResultCreated(50)
		r.ResultRejected()
		r.ResultFailed()
	})
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.ResultCreated(67)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `cognitrack_assessment_results_total{outcome="created"} 1`)
	assert.Contains(t, string(body), "cognitrack_assessment_score_percentage_count 1")
}
