package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shopapi/internal/infra"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func strp(s string) *string { return &s }

func TestImageService_URL(t *testing.T) {
	_, rdb := newTestRedis(t)
	svc := NewImageService(rdb, &stubRenderer{}, "http://cdn.test/media", time.Hour)

	assert.Nil(t, svc.URL(nil))
	assert.Nil(t, svc.URL(strp("")))
	assert.Equal(t, "http://cdn.test/media/products/a.jpg", *svc.URL(strp("/products/a.jpg")))
	assert.Equal(t, "https://elsewhere.test/a.jpg", *svc.URL(strp("https://elsewhere.test/a.jpg")))
}

func TestImageService_VariantsCached(t *testing.T) {
	mr, rdb := newTestRedis(t)
	r := &stubRenderer{}
	svc := NewImageService(rdb, r, "http://cdn.test/", time.Hour)
	ctx := context.Background()

	first := svc.Variants(ctx, strp("products/a.jpg"))
	require.Len(t, first, 3)
	assert.Equal(t, "http://resizer.test/small/products/a.jpg", first[0])
	assert.Equal(t, "http://resizer.test/large/products/a.jpg", first[2])
	assert.Equal(t, 3, r.calls)

	second := svc.Variants(ctx, strp("products/a.jpg"))
	assert.Equal(t, first, second)
	assert.Equal(t, 3, r.calls, "served from cache")

	key := variantKey("products/a.jpg", ProductVariants[1])
	assert.Equal(t, "image:variant:medium:300x300:JPEG:q90:products/a.jpg", key)
	assert.True(t, mr.Exists(key))

	mr.FastForward(2 * time.Hour)
	svc.Variants(ctx, strp("products/a.jpg"))
	assert.Equal(t, 6, r.calls, "rendered again after expiry")
}

func TestImageService_VariantsEmptySource(t *testing.T) {
	_, rdb := newTestRedis(t)
	r := &stubRenderer{}
	svc := NewImageService(rdb, r, "http://cdn.test/", time.Hour)

	assert.Equal(t, []string{}, svc.Variants(context.Background(), nil))
	assert.Equal(t, []string{}, svc.Variants(context.Background(), strp("")))
	assert.Zero(t, r.calls)
}

func TestImageService_RenderFailureOmitsVariant(t *testing.T) {
	mr, rdb := newTestRedis(t)
	r := &stubRenderer{err: fmt.Errorf("wrap: %w", infra.ErrBreakerOpen)}
	svc := NewImageService(rdb, r, "http://cdn.test/", time.Hour)

	out := svc.Variants(context.Background(), strp("products/a.jpg"))
	assert.Empty(t, out)
	assert.NotNil(t, out)
	assert.Empty(t, mr.Keys(), "failures are not cached")
}

func TestImageService_RedisDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.Close()
	svc := NewImageService(rdb, &stubRenderer{}, "http://cdn.test/", time.Hour)

	assert.Len(t, svc.Variants(context.Background(), strp("products/a.jpg")), 3)
}
