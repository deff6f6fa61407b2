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

	"github.com/finledger/transactions-api/internal/command"
	"github.com/finledger/transactions-api/internal/config"
	"github.com/finledger/transactions-api/internal/events"
	"github.com/finledger/transactions-api/internal/handler"
	"github.com/finledger/transactions-api/internal/middleware"
	"github.com/finledger/transactions-api/internal/query"
	"github.com/finledger/transactions-api/internal/redis"
	"github.com/finledger/transactions-api/internal/repository"
	"github.com/finledger/transactions-api/internal/storage"
	"github.com/finledger/transactions-api/internal/token"
	"github.com/finledger/transactions-api/internal/upload"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := storage.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, 0)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	tokens := token.NewService(cfg.JWTSecret, cfg.TokenLifetime)
	publisher := events.NewPublisher(redisClient.Client)

	uploader, err := upload.NewCloudinaryUploader(cfg.CloudinaryURL, cfg.UploadPreset)
	if err != nil {
		log.Fatalf("Failed to configure uploader: %v", err)
	}
	uploadPolicy := upload.Policy{Allowed: upload.BaseImageTypes, MaxBytes: cfg.UploadMaxBytes}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	paymentMethodRepo := repository.NewPaymentMethodRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	imageRepo := repository.NewImageRepository(db)
	txnWriteRepo := repository.NewTransactionWriteRepository(db)
	txnReadRepo := repository.NewTransactionReadRepository(db, redisClient.Client)

	// Services
	userCommands := command.NewUserCommandService(userRepo, publisher)
	txnCommands := command.NewTransactionCommandService(txnWriteRepo, txnReadRepo, accountRepo, userRepo, paymentMethodRepo, publisher)
	imageCommands := command.NewImageCommandService(imageRepo, uploader, uploadPolicy, publisher)
	authQueries := query.NewAuthQueryService(userRepo, tokens)
	txnQueries := query.NewTransactionQueryService(txnReadRepo)
	accountQueries := query.NewAccountQueryService(accountRepo)
	referenceQueries := query.NewReferenceQueryService(userRepo, categoryRepo, budgetRepo, paymentMethodRepo)
	imageQueries := query.NewImageQueryService(imageRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(userCommands, authQueries)
	txnHandler := handler.NewTransactionHandler(txnCommands, txnQueries)
	accountHandler := handler.NewAccountHandler(accountQueries)
	referenceHandler := handler.NewReferenceHandler(referenceQueries)
	imageHandler := handler.NewImageHandler(imageCommands, imageQueries, cfg.UploadMaxBytes)

	projector := command.NewBalanceProjector(accountRepo, redisClient.Client)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	registerRoutes(router, tokens, authHandler, txnHandler, accountHandler, referenceHandler, imageHandler)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hostname, _ := os.Hostname()
	subscriber := events.NewSubscriber(redisClient.Client, events.SubscriberConfig{
		Group:    "balance-projector",
		Consumer: hostname,
		Stream:   events.TransactionEventsStream,
		Handler:  projector.HandleTransactionEvent,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := subscriber.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	waitErr := g.Wait()

	closeCtx, cancelClose := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Close(closeCtx); err != nil {
		log.Printf("Failed to close redis client: %v", err)
	}
	cancelClose()

	if waitErr != nil {
		log.Fatalf("Server error: %v", waitErr)
	}
	log.Println("Server stopped")
}

func registerRoutes(
	router *gin.Engine,
	tokens *token.Service,
	authHandler *handler.AuthHandler,
	txnHandler *handler.TransactionHandler,
	accountHandler *handler.AccountHandler,
	referenceHandler *handler.ReferenceHandler,
	imageHandler *handler.ImageHandler,
) {
	authRequired := middleware.AuthMiddleware(tokens)

	router.GET("/", referenceHandler.Root)

	auth := router.Group("/auth")
	{
		auth.POST("/users/register", authHandler.Register)
		auth.POST("/users/login", authHandler.Login)
		auth.GET("/users/me", authRequired, authHandler.Me)
		auth.POST("/images/upload", authRequired, imageHandler.UploadImage)
		auth.GET("/images", authRequired, imageHandler.ListImages)
	}

	transactions := router.Group("/transactions")
	{
		transactions.GET("", authRequired, txnHandler.ListTransactions)
		transactions.GET("/latest", authRequired, txnHandler.LatestTransactions)
		transactions.POST("", txnHandler.CreateTransaction)
		transactions.GET("/:slug", txnHandler.GetTransaction)
		transactions.PATCH("/:slug", txnHandler.UpdateTransaction)
		transactions.DELETE("/:slug", txnHandler.DeleteTransaction)
	}

	router.GET("/accounts", authRequired, accountHandler.ListAccounts)
	router.GET("/accounts/:slug", authRequired, accountHandler.GetAccount)

	router.GET("/users", referenceHandler.ListUsers)
	router.GET("/users/:slug", referenceHandler.GetUser)
	router.GET("/categories", referenceHandler.ListCategories)
	router.GET("/categories/:slug", referenceHandler.GetCategory)
	router.GET("/budgets", referenceHandler.ListBudgets)
	router.GET("/budgets/:slug", referenceHandler.GetBudget)
	router.GET("/payment_methods", referenceHandler.ListPaymentMethods)
	router.GET("/payment_methods/:slug", referenceHandler.GetPaymentMethod)
}
