// Package middleware provides gin middleware and request helpers shared by
// the site's HTTP handlers.
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the static front end served from origins to call the API.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			"GET", "POST", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "X-Requested-With", "X-Request-ID",
		},
		ExposeHeaders: []string{
			"Content-Type", "X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}

	return cors.New(config)
}
