package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/iho/groupledger/internal/adapter/repository/redis"
	"github.com/iho/groupledger/internal/infrastructure/logger"
	"github.com/iho/groupledger/internal/infrastructure/metrics"
	"github.com/iho/groupledger/internal/usecase"
	"github.com/rs/zerolog"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
)

// IdempotencyMiddleware replays the stored response of a repeated request so
// client retries cannot apply a transfer twice.
type IdempotencyMiddleware struct {
	store   usecase.IdempotencyStore
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. ttl <= 0 uses
// usecase.IdempotencyKeyTTL.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, m *metrics.Metrics) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, metrics: m}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodDelete {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		// keys are per group so two groups cannot collide
		if p, ok := PrincipalFromContext(r.Context()); ok {
			key = string(p.GroupID) + ":" + key
		}

		log := logger.FromContext(r.Context(), zerolog.Nop())

		exists, cachedResponse, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			log.Error().Err(err).Msg("idempotency check failed")
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "idempotency check failed")
			return
		}

		if exists {
			if cachedResponse == nil || redis.IsProcessing(cachedResponse) {
				writeError(w, http.StatusConflict, "IDEMPOTENCY_KEY_IN_USE", "a request with this idempotency key is still in progress")
				return
			}

			stored, err := decodeStoredResponse(cachedResponse)
			if err != nil {
				log.Error().Err(err).Msg("stored idempotent response is unreadable")
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "idempotency check failed")
				return
			}

			if m.metrics != nil {
				m.metrics.IdempotencyReplay.Inc()
			}
			if stored.ContentType != "" {
				w.Header().Set("Content-Type", stored.ContentType)
			}
			w.Header().Set("X-Idempotency-Replay", "true")
			w.WriteHeader(stored.Status)
			_, _ = w.Write(stored.Body)
			return
		}

		// Capture response
		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// Store response for future idempotent requests
		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			payload, err := json.Marshal(storedResponse{
				Status:      recorder.statusCode,
				ContentType: recorder.Header().Get("Content-Type"),
				Body:        recorder.body.Bytes(),
			})
			if err == nil {
				err = m.store.Update(r.Context(), key, payload, m.ttl)
			}
			if err != nil {
				log.Error().Err(err).Msg("failed to store idempotent response")
			}
			return
		}

		// failed requests free the key so the client can retry
		if err := m.store.Release(r.Context(), key); err != nil {
			log.Error().Err(err).Msg("failed to release idempotency key")
		}
	})
}

// storedResponse is what a replay sends back: the original status, content
// type and body.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

func decodeStoredResponse(raw []byte) (storedResponse, error) {
	var stored storedResponse
	if err := json.Unmarshal(raw, &stored); err != nil {
		return storedResponse{}, err
	}
	if stored.Status == 0 {
		stored.Status = http.StatusOK
	}
	return stored, nil
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
