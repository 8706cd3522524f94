package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"newsdigest/app/cache"
	"newsdigest/app/database"
	"newsdigest/app/ingest"
)

func NewHandler(runner IngestionRunner, newsClient ingest.HeadlineSource,
	articleRepo database.ArticleRepository, responseCache *cache.Cache, adminSecret string) *Handler {
	return &Handler{
		runner:      runner,
		newsClient:  newsClient,
		articleRepo: articleRepo,
		cache:       responseCache,
		adminSecret: adminSecret,
	}
}

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, version string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, version)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, version string) {
	r.GET("/health", handler.GetHealth)

	r.GET("/api/news", handler.GetNews)
	r.GET("/api/articles", handler.GetArticles)
	r.GET("/api/admin/update-news", handler.UpdateNews)

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "News Digest",
			"version":     version,
			"description": "News headlines ingestion with LLM summaries",
			"endpoints": map[string]string{
				"news":     "/api/news?category=<category>&pageSize=<n>",
				"articles": "/api/articles?category=<category>&limit=<n>",
				"health":   "/health",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}
