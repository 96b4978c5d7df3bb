package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/sangkips/salon-checkout/internal/config"
)

// Submits and holds need an Idempotency-Key and may answer with a replay marker, so these
// are allowed and exposed whatever the deployment configures.
var (
	requiredAllowHeaders = []string{IdempotencyKeyHeader, "X-Request-ID"}
	exposedHeaders       = []string{"Content-Length", "Content-Type", "X-Request-ID", IdempotencyReplayedHeader}
)

// CORSMiddleware lets the POS front end call the checkout API from the configured origins
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    exposedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}

	if len(corsConfig.AllowMethods) == 0 {
		corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	}

	if len(corsConfig.AllowHeaders) == 0 {
		corsConfig.AllowHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin"}
	}
	corsConfig.AllowHeaders = lo.Union(corsConfig.AllowHeaders, requiredAllowHeaders)

	return cors.New(corsConfig)
}
