package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/cache"
	"github.com/rs/zerolog/log"
)

// Cached wraps a Translator with a read-through cache. Cache failures are
// logged and never fail a translation.
type Cached struct {
	next  Translator
	store cache.Client
	ttl   time.Duration
}

// NewCached decorates next with store. ttl <= 0 means 24h.
func NewCached(next Translator, store cache.Client, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cached{next: next, store: store, ttl: ttl}
}

// GetProviderName returns the wrapped provider's name
func (c *Cached) GetProviderName() string {
	return c.next.GetProviderName()
}

// Translate returns a cached translation or asks the wrapped provider.
func (c *Cached) Translate(ctx context.Context, text string, opts Options) (string, error) {
	opts = withDefaults(opts)
	key := c.key(text, opts)

	if hit, err := c.store.Get(ctx, key); err == nil {
		log.Debug().Str("provider", c.next.GetProviderName()).Msg("translation cache hit")
		return string(hit), nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Msg("translation cache read failed")
	}

	translated, err := c.next.Translate(ctx, text, opts)
	if err != nil {
		return "", err
	}

	if err := c.store.Set(ctx, key, []byte(translated), c.ttl); err != nil {
		log.Warn().Err(err).Msg("translation cache write failed")
	}
	return translated, nil
}

func (c *Cached) key(text string, opts Options) string {
	h := sha256.New()
	for _, part := range []string{
		c.next.GetProviderName(),
		opts.SourceLang,
		opts.TargetLang,
		strconv.FormatBool(opts.PreserveFormatting),
		opts.CustomInstructions,
		text,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return cache.Key("tr", strings.ToLower(strings.ReplaceAll(c.next.GetProviderName(), " ", "_")), hex.EncodeToString(h.Sum(nil)[:16]))
}
