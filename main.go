package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	authpb "relay-service/pb/auth"
	userpb "relay-service/pb/user"

	"relay-service/internal/db"
	grpcclient "relay-service/internal/grpc"
	"relay-service/internal/handlers"
	"relay-service/internal/middleware"
	"relay-service/internal/observability"
	"relay-service/internal/rabbitmq"
	"relay-service/internal/relay"
	"relay-service/internal/repositories"
	"relay-service/internal/telemetry"
	"relay-service/internal/ws"
)

func main() {
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, "relay-service", getEnv("OTLP_ENDPOINT", ""))
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		_ = shutdownTracing(ctx)
	}()

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	amqpURL := getEnv("AMQP_URL", "")
	exchange := getEnv("AMQP_EXCHANGE", "relay_events")
	if publisher, err := observability.NewAMQPPublisher(amqpURL, exchange); err != nil {
		log.Printf("ws event publishing disabled: %v", err)
	} else {
		observability.SetPublisher(publisher)
		defer publisher.Close()
	}

	auditPublisher := rabbitmq.NewPublisher(amqpURL, exchange)
	defer auditPublisher.Close()
	if reason := rabbitmq.PublisherNoopReason(auditPublisher); reason != "" {
		log.Printf("audit publisher mode=%s reason=%s", rabbitmq.PublisherMode(auditPublisher), reason)
	}
	auditEmitter := telemetry.NewAuditEmitter(auditPublisher, "audit.relay", "relay-service", getEnv("ENVIRONMENT", "dev"))

	authAddr := getEnv("AUTH_GRPC_ADDR", "localhost:8084")
	userAddr := getEnv("USER_GRPC_ADDR", "localhost:8085")

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(observability.GRPCClientMetricsUnaryInterceptor()),
	}

	authConn, err := grpc.Dial(authAddr, dialOpts...)
	if err != nil {
		log.Fatalf("failed to connect to auth grpc: %v", err)
	}
	defer authConn.Close()

	userConn, err := grpc.Dial(userAddr, dialOpts...)
	if err != nil {
		log.Fatalf("failed to connect to user grpc: %v", err)
	}
	defer userConn.Close()

	authClient := grpcclient.NewAuthClient(authpb.NewAuthServiceClient(authConn))
	userClient := grpcclient.NewUserClient(userpb.NewUserDirectoryClient(userConn))

	registry := relay.NewRegistry()
	hub := ws.NewHub(registry)
	presence := relay.NewPresence(registry, userClient, hub)
	keys := relay.NewKeyExchange(registry, hub)
	archiveRepo := repositories.NewArchiveRepo(database)
	router := relay.NewRouter(registry, hub, presence, keys, archiveRepo, auditEmitter)

	relayWS := ws.NewRelayHandler(hub, router, authClient)
	roomHandler := handlers.NewRoomHandler(registry, router, auditEmitter)

	engine := gin.Default()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware("relay-service"))
	engine.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(authClient)

	engine.GET("/rooms/:room_id/occupancy", authMiddleware, roomHandler.Occupancy)
	engine.DELETE("/rooms/:room_id/relay", authMiddleware, roomHandler.TearDown)
	engine.GET("/ws/relay", relayWS.Handle)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(engine, auditEmitter, getEnv("DEBUG_ROUTES", "") == "true")

	port := getEnv("PORT", "8086")
	if err := engine.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
