package server

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestStartServesHandler(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "path="+r.URL.Path)
	})

	srv, err := Start(h)
	require.NoError(t, err)
	defer srv.Stop()

	resp, err := http.Get(srv.URL("report"))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "path=/report", string(body))
}

func TestURL(t *testing.T) {
	srv, err := Start(http.NotFoundHandler())
	require.NoError(t, err)
	defer srv.Stop()

	assert.Regexp(t, `^http://127\.0\.0\.1:\d+/\?run_id=1$`, srv.URL("/?run_id=1"))
	assert.Regexp(t, `^http://127\.0\.0\.1:\d+/$`, srv.URL(""))
}

func TestStopRefusesConnections(t *testing.T) {
	srv, err := Start(http.NotFoundHandler())
	require.NoError(t, err)
	url := srv.URL("/")
	srv.Stop()

	_, err = http.Get(url)
	assert.Error(t, err)
}

func TestStopReleasesServeGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv, err := Start(http.NotFoundHandler())
	require.NoError(t, err)
	srv.Stop()
}
