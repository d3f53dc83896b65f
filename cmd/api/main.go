package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"linkmark/internal/config"
	"linkmark/internal/database"
	"linkmark/internal/handlers"
	"linkmark/internal/logger"
	"linkmark/internal/middleware"
	"linkmark/internal/monitoring"
	"linkmark/internal/password"
	"linkmark/internal/token"
)

func main() {
	// Optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("logger: ", err)
	}
	defer zlog.Sync()

	db, err := database.Open(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.CreateTables(db); err != nil {
		zlog.Fatal("failed to create tables", zap.Error(err))
	}

	tokens, err := token.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	if err != nil {
		zlog.Fatal("failed to build token service", zap.Error(err))
	}

	monitor := monitoring.NewService(time.Now(), db)
	policy := password.Policy{MinLength: cfg.PasswordMinLength}
	h := handlers.New(db, zlog, tokens, policy, monitor, cfg.MonitoringKey)

	router := buildRouter(cfg, zlog, tokens, h)

	zlog.Info("LinkMark API starting", zap.String("addr", cfg.ListenAddr))
	if err := router.Run(cfg.ListenAddr); err != nil {
		zlog.Fatal("server failed", zap.Error(err))
	}
}

func buildRouter(cfg *config.Config, zlog *zap.Logger, tokens *token.Service, h *handlers.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(zlog))
	router.Use(monitoring.RequestMetrics())
	router.Use(middleware.LoginRedirect(middleware.RedirectConfig{
		LoginPage: cfg.LoginPage,
		AllowedPaths: []string{
			cfg.LoginPage,
			"/register/",
			"/user-info/",
			"/health",
			"/monitoring/status",
		},
	}, tokens, zlog))

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error": c.Request.Method + " method not allowed",
		})
	})

	router.GET("/health", h.Health)
	router.GET("/api/status", h.Status)
	router.GET("/monitoring/status", h.MonitoringStatus)

	router.POST("/register/", h.Register)
	router.POST("/api/token/", h.TokenPair)
	router.POST("/api/token/refresh/", h.TokenRefresh)

	authenticated := router.Group("/", middleware.RequireAuth(tokens))
	authenticated.GET("/user-info/", h.UserInfo)
	authenticated.GET("/api/bookmarks/", h.ListBookmarks)
	authenticated.POST("/api/bookmarks/", h.CreateBookmark)
	authenticated.GET("/api/bookmarks/:id/", h.GetBookmark)
	authenticated.PUT("/api/bookmarks/:id/", h.UpdateBookmark)
	authenticated.DELETE("/api/bookmarks/:id/", h.DeleteBookmark)
	authenticated.GET("/api/categories/", h.ListCategories)

	return router
}
