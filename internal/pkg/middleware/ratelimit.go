package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"storerating/internal/pkg/cache"
	"storerating/internal/pkg/logger"
	"storerating/internal/pkg/respond"
)

const rateLimitTimeout = 200 * time.Millisecond

// RateLimiter aplica uma janela fixa por IP, com contadores no Redis.
// Falhas do Redis deixam a requisição passar.
func RateLimiter(client cache.Client, limit int, window time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "rate-limit:" + r.URL.Path + ":" + clientIP(r)

			ctx, cancel := context.WithTimeout(r.Context(), rateLimitTimeout)
			defer cancel()

			count, err := client.Incr(ctx, key)
			if err != nil {
				log.Warn("Rate limiter indisponível, liberando requisição.", map[string]interface{}{"error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				if err := client.Expire(ctx, key, window); err != nil {
					log.Warn("Falha ao definir expiração do contador.", map[string]interface{}{"key": key, "error": err.Error()})
				}
			}

			remaining := limit - int(count)
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if int(count) > limit {
				if ttl, err := client.TTL(ctx, key); err == nil && ttl > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(ttl.Seconds()))))
				}
				respond.JSON(w, log, http.StatusTooManyRequests, map[string]interface{}{
					"code":     http.StatusTooManyRequests,
					"category": "RATE_LIMITED",
					"message":  "Limite de requisições excedido. Tente novamente mais tarde.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extrai o IP de RemoteAddr (o chi RealIP já o reescreve atrás de proxy).
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
