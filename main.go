package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"runrun-service/internal/avatars"
	"runrun-service/internal/db"
	"runrun-service/internal/handlers"
	"runrun-service/internal/middleware"
	"runrun-service/internal/observability"
	"runrun-service/internal/push"
	"runrun-service/internal/rabbitmq"
	"runrun-service/internal/repositories"
	"runrun-service/internal/service"
	"runrun-service/internal/telemetry"
)

const serviceName = "runrun-service"

func main() {
	ctx := context.Background()

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracing := observability.InitTracing(serviceName)
	defer shutdownTracing(ctx)

	amqpURL := getEnv("AMQP_URL", "")
	exchange := getEnv("AMQP_EXCHANGE", "runrun.lifecycle")

	publisher := rabbitmq.NewPublisher(amqpURL, exchange)
	defer publisher.Close()
	log.Printf("publisher mode=%s reason=%q", rabbitmq.PublisherMode(publisher), rabbitmq.PublisherNoopReason(publisher))

	audit := telemetry.NewAuditEmitter(publisher, getEnv("AUDIT_ROUTING_KEY", "audit.runrun"), serviceName, getEnv("ENVIRONMENT", "dev"))

	credentialsFile := getEnv("FIREBASE_CREDENTIALS_FILE", "")
	sender := push.NewSender(ctx, credentialsFile)
	log.Printf("push sender mode=%s", push.SenderMode(sender))

	avatarStore := avatars.NewStore(ctx, getEnv("AVATAR_BUCKET", ""), credentialsFile)

	userRepo := repositories.NewUserRepo(database)
	requestRepo := repositories.NewFriendRequestRepo(database)
	runRepo := repositories.NewRunRecordRepo(database)
	cascadeRepo := repositories.NewCascadeRepo(database)

	notifier := service.NewNotifier(userRepo, sender)
	cascade := service.NewCascade(cascadeRepo, avatarStore, audit)

	consumer, err := rabbitmq.NewConsumer(amqpURL, exchange, getEnv("AMQP_QUEUE", "runrun.lifecycle.workers"), notifier, cascade)
	if err != nil {
		log.Printf("lifecycle consumer disabled: %v", err)
	} else {
		defer consumer.Close()
	}

	userHandler := handlers.NewUserHandler(userRepo, publisher, audit)
	friendHandler := handlers.NewFriendHandler(userRepo, requestRepo, publisher, audit)
	runHandler := handlers.NewRunHandler(runRepo, audit)
	notificationHandler := handlers.NewNotificationHandler(notifier, audit)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware(serviceName))

	authMiddleware := middleware.AuthMiddleware([]byte(getEnv("JWT_SECRET", "dev-secret")))

	router.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/users/me", authMiddleware, userHandler.GetProfile)
	router.PUT("/users/me", authMiddleware, userHandler.UpsertProfile)
	router.PUT("/users/me/device-token", authMiddleware, userHandler.RegisterDeviceToken)
	router.DELETE("/users/me", authMiddleware, userHandler.DeleteAccount)

	router.POST("/friend-requests", authMiddleware, friendHandler.SendRequest)
	router.GET("/friend-requests", authMiddleware, friendHandler.ListIncoming)
	router.POST("/friend-requests/:request_id/respond", authMiddleware, friendHandler.Respond)
	router.GET("/friends", authMiddleware, friendHandler.ListFriends)
	router.DELETE("/friends/:friend_id", authMiddleware, friendHandler.Unfriend)

	router.POST("/runs", authMiddleware, runHandler.SyncRuns)
	router.GET("/runs", authMiddleware, runHandler.ListRuns)

	router.POST("/notifications/test", authMiddleware, notificationHandler.SendTest)

	handlers.RegisterDebugRoutes(router, audit, getEnv("DEBUG_ROUTES", "") == "1")

	port := getEnv("PORT", "8086")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
