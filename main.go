package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/seoscope/seoscope/analyzer"
	"github.com/seoscope/seoscope/cache"
	"github.com/seoscope/seoscope/client"
	"github.com/seoscope/seoscope/config"
	"github.com/seoscope/seoscope/insight"
	"github.com/seoscope/seoscope/logging"
	"github.com/seoscope/seoscope/middleware"
	"github.com/seoscope/seoscope/stats"
)

func loadEnv() {
	// Try to load .env.development first (for local development)
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}
}

// newStore picks Postgres when a database URL is configured, otherwise
// an in-process memory store.
func newStore(cfg *config.Config) (cache.Store, error) {
	if cfg.DatabaseURL != "" {
		log.Println("Using Postgres result cache")
		return cache.NewPostgresStore(cfg.DatabaseURL)
	}
	return cache.NewMemoryStore(1000), nil
}

func setupRouter(seoAnalyzer *analyzer.Analyzer, usage *logging.Statistics, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.ErrorHandler())
	r.Use(limiter.RateLimit())
	r.Use(middleware.CORS())
	r.Use(middleware.Stats(usage))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		api.POST("/analyze", analyzeHandler(seoAnalyzer))

		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, usage.GetStatistics())
		})
	}

	return r
}

func main() {
	loadEnv()
	cfg := config.Load()

	mode := cfg.GinMode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	store, err := newStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize result cache:", err)
	}

	statsStorage, err := stats.NewStorage(cfg.DataDir)
	if err != nil {
		log.Fatal("Failed to initialize stats storage:", err)
	}

	var ai *insight.Client
	if cfg.OpenRouterKey != "" {
		ai = insight.NewClient(cfg.OpenRouterKey, cfg.AIBaseURL, cfg.AIModel)
	} else {
		log.Println("OPENROUTER_API_KEY not set, AI insights disabled")
	}

	seoAnalyzer := analyzer.New(store, statsStorage, ai)
	usage := logging.Initialize(cfg.DataDir)
	limiter := middleware.NewRateLimiter(2, 5) // 2 requests per second, bucket size of 5

	r := setupRouter(seoAnalyzer, usage, limiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}

	if err := seoAnalyzer.Shutdown(); err != nil {
		log.Printf("Analyzer shutdown failed: %v", err)
	}
	if err := usage.Save(); err != nil {
		log.Printf("Statistics save failed: %v", err)
	}
	if closer, ok := store.(io.Closer); ok {
		closer.Close()
	}
}

// analyzeHandler binds the analysis request, validates the URL and
// returns the response envelope.
func analyzeHandler(seoAnalyzer *analyzer.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Printf("Analyze request received from: %s\n", c.ClientIP())

		var request client.AnalyzeRequest
		if err := c.ShouldBindJSON(&request); err != nil || !isValidURL(request.URL) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"message": "Invalid URL provided"},
			})
			return
		}

		analysis, err := seoAnalyzer.Analyze(c.Request.Context(), analyzer.Request{
			URL:       request.URL,
			Depth:     request.AnalysisDepth,
			IncludeAI: request.IncludeAIAnalysis,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   gin.H{"message": "Failed to analyze URL: " + err.Error()},
			})
			return
		}

		c.JSON(http.StatusOK, client.AnalyzeResponse{
			Success:     true,
			SEOAnalysis: *analysis,
		})
	}
}

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
