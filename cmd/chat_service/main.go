package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	aiapp "chatterbox_service/internal/ai/app"
	"chatterbox_service/internal/api/handlers"
	"chatterbox_service/internal/api/router"
	chatapp "chatterbox_service/internal/chat/app"
	chatrepo "chatterbox_service/internal/chat/repository"
	memberapp "chatterbox_service/internal/member/app"
	memberdomain "chatterbox_service/internal/member/domain"
	memberrepo "chatterbox_service/internal/member/repository"
	"chatterbox_service/pkg/config"
	"chatterbox_service/pkg/database"
	"chatterbox_service/pkg/logger"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. PostgreSQL (members)
	pgURI := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	pgPool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    pgURI,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval) * time.Second,
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgres after retries", zap.Error(err))
	}
	defer pgPool.Close()

	// 2. MongoDB (chats and messages)
	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%d",
		cfg.Mongo.User, cfg.Mongo.Password, cfg.Mongo.Host, cfg.Mongo.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    mongoURI,
			RetryCount:    cfg.Mongo.RetryCount,
			RetryInterval: time.Duration(cfg.Mongo.RetryInterval) * time.Second,
		},
		cfg.Mongo.Database)
	if err != nil {
		logger.Log.Fatal("Unable to connect to mongoDB database after retries", zap.Error(err))
	}
	defer mongo.Close(ctx)

	// 3. Redis (sessions)
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}
	sessionRepo := database.NewRedisRepository[memberdomain.MemberSession](redisClient)

	// 4. MinIO (pictures)
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:      cfg.MinIO.Endpoint,
		User:          cfg.MinIO.User,
		Password:      cfg.MinIO.Password,
		BucketName:    cfg.MinIO.BucketName,
		UseSSL:        cfg.MinIO.UseSSL,
		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: time.Duration(cfg.MinIO.RetryInterval) * time.Second,
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to minio after retries", zap.Error(err))
	}

	// 5. Kafka (message firehose), optional
	var events chatapp.EventWriter
	if len(cfg.Kafka.Brokers) > 0 {
		writer, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
			Brokers:       cfg.Kafka.Brokers,
			Topic:         cfg.Kafka.Topic,
			RetryCount:    cfg.Kafka.RetryCount,
			RetryInterval: time.Duration(cfg.Kafka.RetryInterval) * time.Second,
		})
		if err != nil {
			logger.Log.Fatal("Unable to connect to kafka after retries", zap.Error(err))
		}
		defer writer.Close()
		events = writer
	} else {
		logger.Log.Warn("kafka brokers not configured, message events disabled")
	}

	// 6. Repositories
	memberRepo := memberrepo.NewMemberRepository(pgPool)
	chatRepo := chatrepo.NewMongoChatRepository(mongo.Database)
	msgRepo := chatrepo.NewMongoMessageRepository(mongo.Database)

	// 7. UseCases
	memberUC := memberapp.NewMemberUseCase(memberRepo, cfg.SessionTTL, sessionRepo, minioClient)
	chatUC := chatapp.NewChatUseCase(chatRepo, memberRepo, minioClient)
	messageUC := chatapp.NewMessageUseCase(chatRepo, msgRepo, memberRepo, events)
	rewriteUC := aiapp.NewRewriteUseCase(cfg.AI)

	// 8. Hub
	hub := chatapp.NewHub()
	go hub.Run(ctx)

	// 9. Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r,
		memberUC,
		handlers.NewMemberHandler(memberUC),
		handlers.NewChatHandler(chatUC, messageUC),
		handlers.NewAIHandler(rewriteUC),
		chatapp.NewChatWebsocketHandler(hub, chatUC, messageUC),
	)

	go func() {
		<-ctx.Done()
		logger.Log.Info("shutting down")
		if err := r.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Log.Errorf("fiber shutdown error:", err)
		}
	}()

	port := ":" + cfg.Port
	logger.Log.Info("Chat Service listening", zap.String("port", port))
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
