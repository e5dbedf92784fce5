package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/repository"
	"github.com/sangkips/pos-ledger/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-ledger/pkg/logger"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayedHeader marks a response served from a stored result
	ReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
	// IdempotencyPendingTTL bounds how long an unfinished request holds its key
	IdempotencyPendingTTL = time.Minute
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	TTL  time.Duration
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

// IdempotencyRequired rejects requests without an Idempotency-Key and
// replays the stored response when a key is seen again on the same
// endpoint. The key is reserved before the handler runs, so a second request
// arriving while the first is still in flight gets 409. Only 2xx responses
// are stored, so a failed sale can be retried with the same key.
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = IdempotencyKeyTTL
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			response.AbortWithCode(c, http.StatusBadRequest, "Idempotency-Key header is required for this request")
			return
		}
		if len(key) > 255 {
			response.AbortWithCode(c, http.StatusBadRequest, "Idempotency-Key must be at most 255 characters")
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.AbortWithCode(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		hash := hex.EncodeToString(sum[:])

		endpoint := c.Request.Method + " " + c.FullPath()
		existing, err := config.Repo.GetByKey(c.Request.Context(), key, endpoint)
		if err != nil {
			logger.L().Error("idempotency lookup failed", zap.String("endpoint", endpoint), zap.Error(err))
			response.AbortWithCode(c, http.StatusInternalServerError, "Failed to check idempotency key")
			return
		}

		if existing != nil && !existing.IsExpired() {
			if existing.RequestHash != "" && existing.RequestHash != hash {
				response.AbortWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used with a different request")
				return
			}
			if existing.IsPending() {
				response.AbortWithCode(c, http.StatusConflict, "A request with this Idempotency-Key is still in progress")
				return
			}
			c.Header(ReplayedHeader, "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		if existing != nil {
			// expired; clear it so the key can be reserved again
			if err := config.Repo.DeleteExpired(c.Request.Context()); err != nil {
				logger.L().Warn("purge idempotency keys", zap.Error(err))
			}
		}

		ikey := &entity.IdempotencyKey{
			Key:         key,
			Endpoint:    endpoint,
			RequestHash: hash,
			ExpiresAt:   time.Now().Add(IdempotencyPendingTTL),
		}
		reserved, err := config.Repo.Reserve(c.Request.Context(), ikey)
		if err != nil {
			logger.L().Error("idempotency reserve failed", zap.String("endpoint", endpoint), zap.Error(err))
			response.AbortWithCode(c, http.StatusInternalServerError, "Failed to check idempotency key")
			return
		}
		if !reserved {
			response.AbortWithCode(c, http.StatusConflict, "A request with this Idempotency-Key is still in progress")
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		ctx := context.WithoutCancel(c.Request.Context())
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			if err := config.Repo.Release(ctx, ikey.ID); err != nil {
				logger.L().Warn("release idempotency key", zap.String("endpoint", endpoint), zap.Error(err))
			}
			return
		}

		if err := config.Repo.Complete(ctx, ikey.ID, status, blw.body.String(), time.Now().Add(ttl)); err != nil {
			logger.L().Warn("store idempotency key", zap.String("endpoint", endpoint), zap.Error(err))
		}
	}
}
