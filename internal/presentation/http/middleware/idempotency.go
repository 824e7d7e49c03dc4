package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader is the HTTP header for idempotency keys
const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo   repository.IdempotencyRepository
	TTL    time.Duration
	Logger *slog.Logger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a POST is retried with the
// same Idempotency-Key by the same user. The key is reserved before the
// handler runs, so a concurrent retry gets 409 instead of a second write.
// Only successful responses are kept; any other outcome releases the key so
// a rejected submission can be corrected and sent again with it. Requests
// without a key pass through.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}
		userID, ok := c.Get(ContextUserID)
		if !ok {
			c.Next()
			return
		}
		uid, ok := userID.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		ikey := &entity.IdempotencyKey{
			Key:       key,
			UserID:    uid,
			Endpoint:  c.Request.Method + " " + c.FullPath(),
			ExpiresAt: time.Now().Add(cfg.TTL),
		}
		err := cfg.Repo.Reserve(ctx, ikey)
		if errors.Is(err, repository.ErrDuplicateKey) {
			replayStored(c, cfg, key, uid)
			return
		}
		if err != nil {
			cfg.Logger.WarnContext(ctx, "idempotency key not reserved", "key", key, "error", err)
			c.Next()
			return
		}

		defer func() {
			if r := recover(); r != nil {
				_ = cfg.Repo.Release(ctx, key, uid)
				panic(r)
			}
		}()

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			if err := cfg.Repo.Release(ctx, key, uid); err != nil {
				cfg.Logger.WarnContext(ctx, "idempotency key not released", "key", key, "error", err)
			}
			return
		}
		ikey.ResponseCode = status
		ikey.ResponseBody = blw.body.String()
		if err := cfg.Repo.Complete(ctx, ikey); err != nil {
			cfg.Logger.WarnContext(ctx, "idempotency response not stored", "key", key, "error", err)
		}
	}
}

func replayStored(c *gin.Context, cfg IdempotencyConfig, key string, userID uuid.UUID) {
	ctx := c.Request.Context()
	existing, err := cfg.Repo.GetByKey(ctx, key, userID)
	if err != nil {
		cfg.Logger.WarnContext(ctx, "idempotency lookup failed", "key", key, "error", err)
	}
	if existing == nil || existing.IsPending() {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "A request with this Idempotency-Key is still being processed",
		})
		return
	}
	c.Header("X-Idempotency-Replayed", "true")
	c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
	c.Abort()
}
