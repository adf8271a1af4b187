package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// maxCachedBody caps the size of a stored response body
const maxCachedBody = 1 << 20

// CacheStore is the key/value backend of the response cache
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// RedisStore is a CacheStore backed by redis
type RedisStore struct {
	rdb redis.Cmdable
}

func NewRedisStore(rdb redis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	bs, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return bs, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.SetEx(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.rdb.Incr(ctx, key).Result()
}

// Cache stores successful GET responses of the public catalog. Every
// successful write through the cache bumps a generation counter that is
// part of each key, so older entries are never read again and expire on
// their own.
type Cache struct {
	store  CacheStore
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// NewCache creates a response cache. A nil *Cache passes requests through.
func NewCache(store CacheStore, ttl time.Duration, prefix string, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: store, ttl: ttl, prefix: prefix, logger: logger}
}

// Middleware caches GET responses and invalidates them on successful writes.
// Authenticated requests are never served from the cache.
func (c *Cache) Middleware(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rec := newRecorder(w, false)
			next.ServeHTTP(rec, r)
			if rec.status < http.StatusBadRequest {
				c.Invalidate(r.Context())
			}
			return
		}
		if r.Header.Get("Authorization") != "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key, err := c.key(ctx, r)
		if err != nil {
			c.logger.Debug("cache unavailable", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		if bs, ok, err := c.store.Get(ctx, key); err != nil {
			c.logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			if status, hdr, body, ok := decodePayload(bs); ok {
				for k, vals := range hdr {
					if strings.EqualFold(k, "Content-Length") {
						continue
					}
					for _, v := range vals {
						w.Header().Add(k, v)
					}
				}
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(status)
				_, _ = w.Write(body)
				return
			}
		}

		w.Header().Set("X-Cache", "MISS")
		rec := newRecorder(w, true)
		next.ServeHTTP(rec, r)

		if rec.status != http.StatusOK || rec.overflow {
			return
		}
		hdr := w.Header().Clone()
		hdr.Del("X-Cache")
		payload, err := encodePayload(rec.status, hdr, rec.buf.Bytes())
		if err != nil {
			return
		}
		if err := c.store.Set(context.WithoutCancel(ctx), key, payload, c.ttl); err != nil {
			c.logger.Debug("cache write failed", zap.String("key", key), zap.Error(err))
		}
	})
}

// Invalidate moves the cache to a new generation
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if _, err := c.store.Incr(context.WithoutCancel(ctx), c.generationKey()); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

func (c *Cache) generationKey() string {
	return c.prefix + ":generation"
}

func (c *Cache) generation(ctx context.Context) (int64, error) {
	bs, ok, err := c.store.Get(ctx, c.generationKey())
	if err != nil || !ok {
		return 0, err
	}
	gen, err := strconv.ParseInt(string(bs), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cache generation: %w", err)
	}
	return gen, nil
}

func (c *Cache) key(ctx context.Context, r *http.Request) (string, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.Query().Encode()))
	return fmt.Sprintf("%s:gen:%d:%x", c.prefix, gen, sum[:]), nil
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// recorder remembers the response status and, when capturing, a copy of
// the body.
type recorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	capture     bool
	overflow    bool
	buf         bytes.Buffer
}

func newRecorder(w http.ResponseWriter, capture bool) *recorder {
	return &recorder{ResponseWriter: w, status: http.StatusOK, capture: capture}
}

func (r *recorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	if r.capture && !r.overflow {
		if r.buf.Len()+len(b) > maxCachedBody {
			r.overflow = true
			r.buf.Reset()
		} else {
			r.buf.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}
