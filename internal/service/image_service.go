package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"shopapi/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ProductVariants are rendered for every product that has a source image,
// in response order: small, medium, large.
var ProductVariants = []infra.VariantSpec{
	{Name: "small", Width: 100, Height: 100, Fit: "fill", Format: "JPEG", Quality: 85},
	{Name: "medium", Width: 300, Height: 300, Fit: "fill", Format: "JPEG", Quality: 90},
	{Name: "large", Width: 800, Height: 800, Fit: "fill", Format: "JPEG", Quality: 95},
}

const variantKeyPrefix = "image:variant:"

// VariantRenderer produces the URL of a resized rendition of source.
type VariantRenderer interface {
	Render(ctx context.Context, source string, spec infra.VariantSpec) (string, error)
}

// ImageService resolves stored image paths into public URLs.
type ImageService interface {
	// URL joins a stored source path onto the media base URL; nil stays nil.
	URL(path *string) *string
	// Variants returns the URLs of ProductVariants for source. A nil or empty
	// source yields an empty slice; variants the renderer fails on are omitted.
	Variants(ctx context.Context, source *string) []string
}

type imageService struct {
	rdb      *redis.Client
	renderer VariantRenderer
	mediaURL string
	ttl      time.Duration
}

func NewImageService(rdb *redis.Client, renderer VariantRenderer, mediaURL string, ttl time.Duration) ImageService {
	if !strings.HasSuffix(mediaURL, "/") {
		mediaURL += "/"
	}
	return &imageService{rdb: rdb, renderer: renderer, mediaURL: mediaURL, ttl: ttl}
}

func (s *imageService) URL(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	if u, err := url.Parse(*path); err == nil && u.IsAbs() {
		return path
	}
	full := s.mediaURL + strings.TrimLeft(*path, "/")
	return &full
}

func variantKey(source string, spec infra.VariantSpec) string {
	return variantKeyPrefix + spec.Key() + ":" + source
}

func (s *imageService) Variants(ctx context.Context, source *string) []string {
	out := make([]string, 0, len(ProductVariants))
	if source == nil || *source == "" {
		return out
	}

	keys := make([]string, len(ProductVariants))
	for i, spec := range ProductVariants {
		keys[i] = variantKey(*source, spec)
	}
	cached, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		log.Warn().Err(err).Str("source", *source).Msg("variant cache read failed")
		cached = make([]any, len(keys))
	}

	for i, spec := range ProductVariants {
		if v, ok := cached[i].(string); ok && v != "" {
			out = append(out, v)
			continue
		}
		u, err := s.renderer.Render(ctx, *source, spec)
		if err != nil {
			ev := log.Warn()
			if errors.Is(err, infra.ErrBreakerOpen) {
				ev = log.Debug()
			}
			ev.Err(err).Str("source", *source).Str("variant", spec.Name).Msg("variant render failed")
			continue
		}
		if err := s.rdb.Set(ctx, keys[i], u, s.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", keys[i]).Msg("variant cache write failed")
		}
		out = append(out, u)
	}
	return out
}
