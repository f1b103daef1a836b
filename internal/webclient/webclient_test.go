package webclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return New(Options{
		UserAgent: "capmetrics-test/1.0",
		RPS:       100,
		Burst:     10,
		Timeout:   5 * time.Second,
	}, logrus.NewEntry(log))
}

func TestGetHTMLReturnsBodyAndSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	body, err := testClient().GetHTML(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ok")
	assert.Equal(t, "capmetrics-test/1.0", gotUA)
}

func TestGetHTMLRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient().GetHTML(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestGetHTMLHonorsContextCancellation(t *testing.T) {
	c := New(Options{UserAgent: "x", RPS: 0.001, Burst: 1, Timeout: time.Second},
		logrus.NewEntry(logrus.New()))
	// First token is available immediately; drain it so the next call waits.
	c.limiter.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.GetHTML(ctx, "http://127.0.0.1:0/never")
	assert.Error(t, err)
}
