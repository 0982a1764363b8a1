package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := New(srv.URL, time.Second)
	assert.NoError(t, p.Check(context.Background()))
}

func TestCheckNon2xxFails(t *testing.T) {
	for _, status := range []int{http.StatusServiceUnavailable, http.StatusNotFound, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		p := New(srv.URL, time.Second)
		assert.Error(t, p.Check(context.Background()), "status %d should fail the probe", status)
		srv.Close()
	}
}

func TestCheckTransportErrorFails(t *testing.T) {
	// Nothing listens here.
	p := New("http://127.0.0.1:1", 500*time.Millisecond)
	assert.Error(t, p.Check(context.Background()))
}

func TestCheckTimeoutFails(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer func() {
		close(blocked)
		srv.Close()
	}()

	p := New(srv.URL, 100*time.Millisecond)
	start := time.Now()
	err := p.Check(context.Background())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second, "probe must fail within its bounded timeout")
}
