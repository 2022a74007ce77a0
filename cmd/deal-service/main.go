package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/LavaJover/safelink-deal-service/internal/app/background"
	"github.com/LavaJover/safelink-deal-service/internal/app/setup"
	"github.com/LavaJover/safelink-deal-service/internal/config"
	"github.com/LavaJover/safelink-deal-service/internal/delivery/grpcapi"
	"github.com/LavaJover/safelink-deal-service/internal/delivery/http/router"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	appLogger := logger.New(cfg.LogConfig)
	slog.SetDefault(appLogger)

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			slog.Error("failed to close dependencies", "error", err)
		}
	}()

	useCases := setup.InitializeUseCases(deps)

	// HTTP server
	engine := router.New(router.Dependencies{
		Logger:            appLogger,
		Deals:             useCases.DealUsecase,
		PaystackSecretKey: cfg.Paystack.SecretKey,
		AllowedOrigins:    allowedOrigins(cfg),
		Gatherer:          deps.Registry,
	})
	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      engine,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// gRPC server
	if cfg.GRPCServer.Enabled {
		lis, err := net.Listen("tcp", net.JoinHostPort(cfg.GRPCServer.Host, cfg.GRPCServer.Port))
		if err != nil {
			log.Fatalf("failed to listen: %v", err)
		}
		grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpcapi.LoggingInterceptor(appLogger)))
		grpcapi.RegisterDealServiceServer(grpcServer, grpcapi.NewDealHandler(useCases.DealUsecase))

		g.Go(func() error {
			slog.Info("grpc server started", "addr", lis.Addr().String())
			return grpcServer.Serve(lis)
		})
		g.Go(func() error {
			<-gctx.Done()
			grpcServer.GracefulStop()
			return nil
		})
	}

	// Pending payment reconciler
	tasks := background.NewBackgroundTasks(useCases.DealUsecase, cfg.Reconciler)
	g.Go(func() error {
		tasks.Run(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// allowedOrigins adds the frontend and the local app shells to the
// configured CORS list.
func allowedOrigins(cfg *config.DealConfig) []string {
	origins := append([]string{}, cfg.CORS.AllowedOrigins...)
	origins = append(origins,
		cfg.Paystack.FrontendURL,
		"http://localhost:5173",
		"capacitor://localhost",
		"http://localhost",
		"https://localhost",
	)
	return origins
}
