package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirkhan/campus-lesson-tracker/internal/config"
)

func TestPayloadEncodeDecode(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"lessons":[]}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {}, {1, 2, 3}, []byte("not a payload")} {
		_, _, _, ok := decodePayload(bs)
		assert.False(t, ok)
	}
}

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "lessons-cache",
	}
}

// serveCached runs one GET /v1/lessons through the cache middleware for the
// given user.  The inner handler renders a per-user body, like the real
// lesson listing does.
func serveCached(t *testing.T, mw echo.MiddlewareFunc, userID uint64) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/lessons", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/lessons")
	c.Set("user_id", userID)
	h := mw(func(c echo.Context) error {
		uid, _ := c.Get("user_id").(uint64)
		return c.String(http.StatusOK, fmt.Sprintf("progress-for-%d", uid))
	})
	require.NoError(t, h(c))
	return rec
}

// A cached body must only ever be replayed to the user it was produced for:
// the cached endpoints are per-user views, so a shared entry would hand one
// student another student's progress.
func TestCacheIsScopedPerUser(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mw := NewRedisCache(cacheTestConfig(), rdb)

	first := serveCached(t, mw, 7)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "progress-for-7", first.Body.String())

	// Same user again: served from cache, same body.
	again := serveCached(t, mw, 7)
	assert.Equal(t, "HIT", again.Header().Get("X-Cache"))
	assert.Equal(t, "progress-for-7", again.Body.String())

	// A different user must not see user 7's cached view.
	other := serveCached(t, mw, 8)
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, "progress-for-8", other.Body.String())
}

func TestInvalidatorClearsCachedEntries(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cfg := cacheTestConfig()
	mw := NewRedisCache(cfg, rdb)

	serveCached(t, mw, 7)
	require.NoError(t, NewInvalidator(cfg, rdb)(context.Background()))

	// Entry gone: the next request is a MISS again.
	refetch := serveCached(t, mw, 7)
	assert.Equal(t, "MISS", refetch.Header().Get("X-Cache"))
}

// Without Redis the cache degrades to a passthrough and invalidation is a
// no-op, so the attendance flow keeps working.
func TestCacheDegradesWithoutRedis(t *testing.T) {
	cfg := config.LoadCacheConfig()

	mw := NewRedisCache(cfg, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/lessons", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"), "no cache headers without a backend")

	inv := NewInvalidator(cfg, nil)
	assert.NoError(t, inv(context.Background()))
}
