package server

import (
	"log/slog"
	"os"

	"github.com/AshishBiswas1/uber-drive-geo-server/internal/cache"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/config"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/estimate"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/maps"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/metrics"
	"github.com/AshishBiswas1/uber-drive-geo-server/internal/routing"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// Dependencies is everything the controllers pull from the request context.
type Dependencies struct {
	Geocoding cache.Geocoding
	Router    *routing.Router
	Estimator *estimate.Estimator
	Maps      *maps.Loader
	Metrics   *metrics.Metrics
	DB        *gorm.DB
}

func applyMiddleware(r *gin.Engine, config *config.Config, otelComponent string, deps *Dependencies) {
	r.Use(gin.Recovery())

	r.TrustedPlatform = "X-Real-IP"

	// CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowWildcard = true
	if len(config.HTTP.CORSHosts) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowOrigins = config.HTTP.CORSHosts
	r.Use(cors.New(corsConfig))

	err := r.SetTrustedProxies(config.HTTP.TrustedProxies)
	if err != nil {
		slog.Error("Failed to set trusted proxies", "error", err.Error())
	}

	r.Use(configMiddleware(config))
	r.Use(dependenciesMiddleware(deps))

	if config.HTTP.Tracing.Enabled {
		r.Use(otelgin.Middleware(otelComponent))
		r.Use(tracingProvider(config))
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	r.Use(sloggin.NewWithConfig(logger, sloggin.Config{
		WithSpanID:        config.HTTP.Tracing.Enabled,
		WithTraceID:       config.HTTP.Tracing.Enabled,
		DefaultLevel:      slog.LevelInfo,
		ClientErrorLevel:  slog.LevelWarn,
		ServerErrorLevel:  slog.LevelError,
		WithRequestHeader: false,
	}))
}

func configMiddleware(config *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("config", config)
		c.Next()
	}
}

func dependenciesMiddleware(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("geocoding", deps.Geocoding)
		c.Set("router", deps.Router)
		c.Set("estimator", deps.Estimator)
		c.Set("maps", deps.Maps)
		c.Set("metrics", deps.Metrics)
		c.Set("db", deps.DB)
		c.Next()
	}
}

func tracingProvider(config *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.HTTP.Tracing.OTLPEndpoint != "" {
			ctx := c.Request.Context()
			span := trace.SpanFromContext(ctx)
			if span.IsRecording() {
				span.SetAttributes(
					attribute.String("http.method", c.Request.Method),
					attribute.String("http.path", c.Request.URL.Path),
				)
			}
		}
		c.Next()
	}
}
