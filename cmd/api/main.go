package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gomokuarena/backend/internal/config"
	"github.com/gomokuarena/backend/internal/notify"
	"github.com/gomokuarena/backend/internal/obslog"
	"github.com/gomokuarena/backend/internal/repository/postgres"
	"github.com/gomokuarena/backend/internal/repository/redis"
	"github.com/gomokuarena/backend/internal/service/cleanup"
	gamesvc "github.com/gomokuarena/backend/internal/service/game"
	"github.com/gomokuarena/backend/internal/service/session"
	transportHttp "github.com/gomokuarena/backend/internal/transport/http"
	"github.com/gomokuarena/backend/internal/transport/http/middleware"
	"github.com/gomokuarena/backend/internal/transport/websocket"
	"github.com/gomokuarena/backend/pkg/auth"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("config.yml")
	if err != nil {
		panic(err)
	}

	if err := obslog.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		panic(err)
	}
	log := obslog.L()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Persistence.
	db, err := postgres.Open(cfg)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("database ready")

	cache, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}
	defer cache.Close()

	userRepo := postgres.NewUserRepo(db)
	gameRepo := postgres.NewGameRepo(db)
	rulesetRepo := postgres.NewRuleSetRepo(db)

	// Services.
	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.AccessTokenTTLMin)*time.Minute)
	authService := session.NewAuthService(userRepo, cache, tokens, time.Duration(cfg.SessionTTLHours)*time.Hour)

	connManager := websocket.NewConnectionManager()
	fanout := notify.NewFanout(connManager, log)

	sessionManager := gamesvc.NewSessionManager()
	gameService := gamesvc.NewService(sessionManager, gameRepo, fanout)

	cleanupWorker := cleanup.NewWorker(sessionManager, time.Duration(cfg.FinishedSessionTTLMin)*time.Minute)
	go cleanupWorker.Start(ctx)

	// Transport.
	authHandler := transportHttp.NewAuthHandler(authService, userRepo)
	oauthHandler := transportHttp.NewOAuthHandler(authService, cfg.GoogleOAuth, cfg.FrontendURL)
	gameHandler := transportHttp.NewGameHandler(gameService, rulesetRepo, userRepo, cache)
	wsHandler := websocket.NewHandler(connManager, gameService, authService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.FrontendURL))

	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/login", authHandler.Login)
	router.GET("/api/auth/google/login", oauthHandler.GoogleLogin)
	router.GET("/api/auth/google/callback", oauthHandler.GoogleCallback)

	router.GET("/ws", wsHandler.HandleWebSocket)

	protected := router.Group("/", middleware.Auth(authService))
	{
		protected.POST("/api/auth/logout", authHandler.Logout)
		protected.GET("/api/auth/me", authHandler.Me)

		protected.GET("/api/rulesets", gameHandler.ListRuleSets)
		protected.POST("/api/rulesets", gameHandler.CreateRuleSet)

		protected.POST("/api/games", gameHandler.CreateGame)
		protected.GET("/api/games/mine", gameHandler.MyGames)
		protected.GET("/api/games/:id", gameHandler.GetGame)
		protected.POST("/api/games/:id/moves", gameHandler.MakeMove)
		protected.GET("/api/games/:id/turn", gameHandler.MyTurn)
		protected.GET("/api/games/:id/opponent", gameHandler.Opponent)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown incomplete", zap.Error(err))
	}
}
