package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"sokoni/internal/adapter/api"
	"sokoni/internal/adapter/api/handler"
	apimiddleware "sokoni/internal/adapter/api/middleware"
	"sokoni/internal/adapter/api/router"
	"sokoni/internal/adapter/repository"
	"sokoni/internal/infrastructure/firebase"
	"sokoni/internal/infrastructure/storage"
	"sokoni/internal/infrastructure/websocket"
	"sokoni/internal/usecase"
	"sokoni/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	credentialsPath := ""

	// Service account JSON in the environment wins (production); a file path
	// is the local-development fallback.
	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		credentialsPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if credentialsPath == "" {
			log.Fatalf("FIREBASE_SERVICE_ACCOUNT_JSON or FIREBASE_SERVICE_ACCOUNT_PATH must be set")
		}

		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", credentialsPath)
		}

		log.Printf("Using Firebase service account from file: %s", credentialsPath)
		opt = option.WithCredentialsFile(credentialsPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	profileRepo := repository.NewFirestoreProfileRepository(firestoreClient)
	productRepo := repository.NewFirestoreProductRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	cartRepo := repository.NewFirestoreCartRepository(firestoreClient)
	favoriteRepo := repository.NewFirestoreFavoriteRepository(firestoreClient)
	feed := repository.NewFirestoreFeed(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	userUseCase := usecase.NewUserUseCase(profileRepo, firebaseAuthClient)
	productUseCase := usecase.NewProductUseCase(productRepo)
	messageUseCase := usecase.NewMessageUseCase(messageRepo, profileRepo)
	orderUseCase := usecase.NewOrderUseCase(orderRepo)
	cartUseCase := usecase.NewCartUseCase(cartRepo, productRepo)
	checkoutUseCase := usecase.NewCheckoutUseCase(cartRepo, productRepo, orderRepo)
	favoriteUseCase := usecase.NewFavoriteUseCase(favoriteRepo, productRepo)

	handler.Setup(userUseCase, productUseCase, messageUseCase, orderUseCase, cartUseCase, checkoutUseCase, favoriteUseCase)
	handler.SetupFileHandler(storageClient)
	handler.SetupHealthHandler()

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient, userUseCase)

	wsHandler := handler.NewWebSocketHandler(
		wsManager,
		authMiddleware,
		userUseCase,
		orderUseCase,
		feed,
		cfg.SyncCoalesceWindow,
	)

	router.Setup(e, authMiddleware)
	router.SetupFileRouter(e, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
