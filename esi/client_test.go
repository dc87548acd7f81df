package esi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/esiq/model"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(
		WithBaseURL(srv.URL),
		WithRateLimit(0),
	)
}

func TestSystemIDs(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/universe/systems/", r.URL.Path)
		_, _ = w.Write([]byte("[30000001,30000002,30000003]"))
	}))

	ids, err := c.SystemIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.SystemID{30000001, 30000002, 30000003}, ids)
}

func TestSystem(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/universe/systems/30000142/", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"system_id": 30000142,
			"name": "Jita",
			"security_status": 0.9459,
			"planets": [{"planet_id": 40009077, "moons": [40009078]}]
		}`))
	}))

	rec, err := c.System(context.Background(), 30000142)
	require.NoError(t, err)
	assert.Equal(t, "Jita", rec.Name)
	assert.Equal(t, model.SystemID(30000142), rec.SystemID)
	assert.Equal(t, 1, rec.MoonCount())
}

func TestSystemGzipResponse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gzip", r.Header.Get("Accept-Encoding"))

		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(`{"system_id": 30002187, "name": "Amarr"}`))
		_ = gz.Close()
	}))

	rec, err := c.System(context.Background(), 30002187)
	require.NoError(t, err)
	assert.Equal(t, "Amarr", rec.Name)
}

func TestTransientFailureRetried(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"system_id": 30000144, "name": "Perimeter"}`))
	}))

	rec, err := c.System(context.Background(), 30000144)
	require.NoError(t, err)
	assert.Equal(t, "Perimeter", rec.Name)
	assert.Equal(t, int32(3), hits.Load())
}

func TestClientErrorFailsFast(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.System(context.Background(), 1)
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, int32(1), hits.Load(), "4xx must not be retried")
}

func TestRoute(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/route/30000142/30002187/", r.URL.Path)
		_, _ = w.Write([]byte("[30000142,30000144,30002187]"))
	}))

	ids, err := c.Route(context.Background(), 30000142, 30002187)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
	assert.Equal(t, model.SystemID(30000142), ids[0])
	assert.Equal(t, model.SystemID(30002187), ids[2])
}

func TestResolveSystemName(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/universe/ids/", r.URL.Path)
		_, _ = w.Write([]byte(`{"systems": [{"id": 30000142, "name": "Jita"}]}`))
	}))

	id, err := c.ResolveSystemName(context.Background(), "Jita")
	require.NoError(t, err)
	assert.Equal(t, model.SystemID(30000142), id)
}

func TestResolveSystemNameUnknown(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := c.ResolveSystemName(context.Background(), "Nonexistent")
	assert.Error(t, err)
}
