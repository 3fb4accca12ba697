package router

import (
	"log/slog"

	"safepay/config"
	"safepay/internal/auth"
	"safepay/internal/classifier"
	"safepay/internal/handler"
	"safepay/internal/middleware"
	"safepay/internal/repository"
	"safepay/internal/service"
	"safepay/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup builds the engine. The returned stop func releases background
// workers and must be called once the server is done.
func Setup(cfg *config.Config, store repository.Store, cls classifier.Classifier, log *slog.Logger) (*gin.Engine, func()) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.Metrics())
	stop := func() {}
	if cfg.RateLimit.Requests > 0 {
		limiter := middleware.NewInMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		stop = limiter.Stop
		r.Use(middleware.RateLimit(limiter))
	}

	tokens := auth.NewTokenIssuer(&cfg.JWT)
	hub := ws.NewHub(log)

	// Services
	userSvc := service.NewUserService(store, tokens, &cfg.Security, log)
	authSvc := service.NewAuthService(store, tokens, &cfg.JWT, log)
	walletSvc := service.NewWalletService(store, log)
	txSvc := service.NewTransactionService(store, hub, log)
	analysisSvc := service.NewAnalysisService(store, cls, log)

	// Handlers
	authHandler := handler.NewAuthHandler(userSvc, authSvc, log)
	walletHandler := handler.NewWalletHandler(walletSvc, log)
	txHandler := handler.NewTransactionHandler(txSvc, log)
	messageHandler := handler.NewMessageHandler(analysisSvc, log)

	r.GET("/health", handler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", ws.Serve(hub, authSvc))

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	authed := r.Group("")
	authed.Use(middleware.AuthRequired(authSvc, log))
	{
		authed.POST("/createWallet", walletHandler.Create)
		authed.GET("/viewWallet", walletHandler.View)

		authed.POST("/createTransaction", txHandler.Create)
		authed.GET("/getTransaction/:id", txHandler.Get)
		authed.PATCH("/updateTransaction/:id", txHandler.UpdateStatus)

		authed.GET("/getMessages", messageHandler.List)
		authed.POST("/Analyze", messageHandler.Analyze)
	}
	return r, stop
}
