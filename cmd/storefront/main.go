package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rookgm/deliverystore/config"
	"github.com/rookgm/deliverystore/internal/amount"
	"github.com/rookgm/deliverystore/internal/chain"
	handler "github.com/rookgm/deliverystore/internal/handler/http"
	"github.com/rookgm/deliverystore/internal/logger"
	"github.com/rookgm/deliverystore/internal/metrics"
	"github.com/rookgm/deliverystore/internal/middleware"
	"github.com/rookgm/deliverystore/internal/repository"
	"github.com/rookgm/deliverystore/internal/repository/postgres"
	"github.com/rookgm/deliverystore/internal/service"
	"github.com/rookgm/deliverystore/internal/wallet"
	"github.com/rookgm/deliverystore/internal/worker"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	logger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid config", zap.Error(err))
	}

	channelValue, err := amount.ParseEther(cfg.ChannelValue)
	if err != nil {
		logger.Fatal("Invalid channel value", zap.Error(err))
	}

	policy, err := service.ParseOrderIDPolicy(cfg.OrderIDPolicy)
	if err != nil {
		logger.Fatal("Invalid order id policy", zap.Error(err))
	}

	// create context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// initialize database
	db, err := postgres.New(ctx, cfg.StoreURL, cfg.StoreKey)
	if err != nil {
		logger.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	err = db.Migrate()
	if err != nil {
		logger.Fatal("Error migrating database", zap.Error(err))
	}

	// connect wallet and contract
	client, err := ethclient.DialContext(ctx, cfg.ChainRPCURL)
	if err != nil {
		logger.Fatal("Error connecting to chain", zap.Error(err))
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		logger.Fatal("Error reading chain id", zap.Error(err))
	}

	signer, err := wallet.NewKeySigner(cfg.WalletKey)
	if err != nil {
		logger.Fatal("Error loading wallet key", zap.Error(err))
	}

	opts, err := signer.TransactOpts(chainID)
	if err != nil {
		logger.Fatal("Error creating transactor", zap.Error(err))
	}

	gateway, err := chain.NewGateway(client, cfg.ContractAddress, opts)
	if err != nil {
		logger.Fatal("Error binding contract", zap.Error(err))
	}

	logger.Info("Wallet connected",
		zap.String("address", signer.Address()),
		zap.String("contract", cfg.ContractAddress),
		zap.String("chain_id", chainID.String()),
	)

	metrics.Register(prometheus.DefaultRegisterer)

	// dependency injection
	// order
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderService := service.NewOrderService(orderRepo, productRepo, gateway, signer, policy, channelValue, logger)
	orderHandler := handler.NewOrderHandler(orderService, handler.NewValidator(), logger)

	// product
	productService := service.NewProductService(productRepo)
	productHandler := handler.NewProductHandler(productService, logger)

	// wallet
	roleService := service.NewRoleService(gateway, signer)
	channelService := service.NewChannelService(gateway, channelValue)
	walletHandler := handler.NewWalletHandler(roleService, channelService, logger)

	// reconciliation
	reconciler := worker.NewReconciler(service.NewReconcileService(orderRepo, gateway), cfg.ReconcileInterval, logger)
	go reconciler.Run(ctx)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger))

	router.Get("/api/products", productHandler.ListProducts())
	router.Get("/api/role", walletHandler.Role())
	router.Post("/api/channel", walletHandler.OpenChannel())

	router.Route("/api/orders", func(r chi.Router) {
		r.Post("/", orderHandler.CreateOrder())
		r.Get("/", orderHandler.ListOrders())
		r.Post("/{orderID}/confirm", orderHandler.ConfirmOrder())
		r.Post("/{orderID}/delivery-person", orderHandler.AssignDeliveryPerson())
		r.Post("/{orderID}/delivery-confirmation", orderHandler.ConfirmDelivery())
	})

	router.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", zap.Error(err))
		}
	}()

	logger.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Error starting server", zap.Error(err))
	}

	logger.Info("Server stopped")
}
