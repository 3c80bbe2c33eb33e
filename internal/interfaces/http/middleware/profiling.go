package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled          bool
	SkipPathPrefixes []string
}

// DefaultProfilingConfig skips health checks and the docs.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPathPrefixes: []string{"/health", "/swagger"},
	}
}

// ProfilingWithConfig runs the rest of the chain under pprof labels for the
// route, method and handler so CPU profiles can be sliced per endpoint.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	labels := map[string]string{
		"method": c.Request.Method,
		"route":  c.FullPath(),
	}
	if name := c.HandlerName(); name != "" {
		// github.com/.../handler.(*CartHandler).AddItem-fm -> CartHandler.AddItem
		if i := strings.LastIndex(name, "."); i > 0 {
			owner := name[:i]
			if j := strings.LastIndex(owner, "."); j >= 0 {
				owner = owner[j+1:]
			}
			owner = strings.Trim(owner, "(*)")
			labels["handler"] = owner + "." + strings.TrimSuffix(name[i+1:], "-fm")
		}
	}
	return labels
}
