package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/mail-triage/internal/core"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()

	r.ObserveTriage(core.CategorySpam, false, false)
	r.ObserveTriage(core.CategoryProfessional, true, false)
	r.ObserveTriage(core.CategoryProfessional, true, true)
	r.ObserveDrafterFallback("gemini")
	r.ObserveDrafterFallback("gemini")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.messages.WithLabelValues("SPAM", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.messages.WithLabelValues("PROFESSIONAL", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.messages.WithLabelValues("PROFESSIONAL", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.meetings))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.fallbacks.WithLabelValues("gemini")))
}

func TestRecorderHandler(t *testing.T) {
	r := NewRecorder()
	r.ObserveTriage(core.CategoryPersonal, true, false)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `mail_triage_messages_total{cached="false",category="PERSONAL"} 1`)
	assert.Contains(t, string(body), "mail_triage_meetings_detected_total 1")
}

func TestRouter(t *testing.T) {
	srv := httptest.NewServer(newRouter(NewRecorder()))
	defer srv.Close()

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{name: "health", method: http.MethodGet, path: "/healthz", status: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", status: http.StatusOK},
		{name: "metrics rejects post", method: http.MethodPost, path: "/metrics", status: http.StatusMethodNotAllowed},
		{name: "unknown path", method: http.MethodGet, path: "/nope", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
