package middleware

import (
	"bytes"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/investify-receipts/internal/domain/entity"
	"github.com/sangkips/investify-receipts/internal/domain/repository"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
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

// Idempotency replays the stored response when a client resends a request
// with an Idempotency-Key it already used, so a receipt that printed is not
// printed again. Only successful responses are stored: a failed print may
// be retried with the same key.
//
// A key is reserved while its request runs. A second request carrying the
// same key before the first has finished gets 409 Conflict instead of
// printing again. Reservations are held in memory and only cover this
// process.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		inFlight = make(map[string]struct{})
	)
	reserve := func(k string) bool {
		mu.Lock()
		defer mu.Unlock()
		if _, busy := inFlight[k]; busy {
			return false
		}
		inFlight[k] = struct{}{}
		return true
	}
	release := func(k string) {
		mu.Lock()
		delete(inFlight, k)
		mu.Unlock()
	}

	return func(c *gin.Context) {
		if c.Request.Method != "POST" || config.Repo == nil {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}
		clientID := ClientID(c)

		slot := clientID + "|" + idempotencyKey
		if !reserve(slot) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "A request with this Idempotency-Key is already in progress",
				"error":   "idempotency_key_in_use",
			})
			return
		}
		defer release(slot)

		existing, err := config.Repo.GetByKey(c.Request.Context(), idempotencyKey, clientID)
		if err != nil {
			log.Printf("Warning: failed to check idempotency key: %v", err)
			c.Next()
			return
		}

		if existing != nil && !existing.IsExpired() {
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			ikey := &entity.IdempotencyKey{
				Key:          idempotencyKey,
				ClientID:     clientID,
				Endpoint:     c.Request.Method + " " + c.FullPath(),
				ResponseCode: c.Writer.Status(),
				ResponseBody: blw.body.String(),
				ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
			}

			if err := config.Repo.Create(c.Request.Context(), ikey); err != nil {
				log.Printf("Warning: failed to store idempotency key: %v", err)
			}
		}
	}
}
