package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/inkwave/inkchat/internal/config"
	"github.com/inkwave/inkchat/internal/gateway"
	"github.com/inkwave/inkchat/internal/handler"
	"github.com/inkwave/inkchat/internal/repository"
	"github.com/inkwave/inkchat/internal/router"
	"github.com/inkwave/inkchat/internal/service"
	"github.com/inkwave/inkchat/pkg/constant"
	"github.com/inkwave/inkchat/pkg/idgen"
	"github.com/inkwave/inkchat/pkg/log"
)

func main() {
	ctx := context.TODO()

	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.CtxError(ctx, "failed to load config: %v", err)
		panic(err)
	}

	log.Init(cfg.Server.Mode)
	defer log.Sync()

	log.CtxInfo(ctx, "config loaded: mode=%s", cfg.Server.Mode)

	// Initialize Redis key prefix
	constant.InitRedisKeyPrefix(cfg.Redis.KeyPrefix)
	log.CtxInfo(ctx, "redis key prefix: %s", constant.GetRedisKeyPrefix())

	// Initialize the message id generator
	gen, err := idgen.NewSonyflakeGenerator(cfg.Server.MachineId)
	if err != nil {
		log.CtxError(ctx, "failed to initialize id generator: %v", err)
		panic(err)
	}
	idgen.SetDefaultGenerator(gen)

	// Initialize repositories
	repos, err := repository.NewRepositories(cfg)
	if err != nil {
		log.CtxError(ctx, "failed to initialize repositories: %v", err)
		panic(err)
	}
	defer repos.Close()

	// Check database connection
	if err := repos.CheckConnection(ctx); err != nil {
		log.CtxError(ctx, "database connection check failed: %v", err)
		panic(err)
	}
	log.CtxInfo(ctx, "database connection established")

	// Initialize services
	convService := service.NewConversationService(repos.Conversation, repos.Message, repos.User)

	// Initialize WebSocket server
	wsServer := gateway.NewWsServer(cfg, repos.Redis, convService)

	// New messages are pushed through the websocket dispatcher
	convService.SetPusher(wsServer.Dispatcher())

	// Start WebSocket server
	wsServer.Run(ctx)
	log.CtxInfo(ctx, "websocket server started")

	// Initialize handlers
	handlers := &router.Handlers{
		Conversation: handler.NewConversationHandler(convService),
		Message:      handler.NewMessageHandler(convService),
	}

	// Create Hertz server
	h := server.Default(
		server.WithHostPorts(fmt.Sprintf(":%d", cfg.Server.HTTPPort)),
	)

	// Setup routes
	router.SetupRouter(h, handlers, wsServer)

	log.CtxInfo(ctx, "server starting on port %d", cfg.Server.HTTPPort)

	// Start server in goroutine
	go func() {
		h.Spin()
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.CtxInfo(ctx, "shutting down server...")

	// Graceful shutdown
	if err := h.Shutdown(ctx); err != nil {
		log.CtxError(ctx, "server shutdown error: %v", err)
	}

	log.CtxInfo(ctx, "server stopped")
}
