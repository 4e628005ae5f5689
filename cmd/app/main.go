package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"grocery/cmd"
	grocerhttp "grocery/internal/adapters/in/http"
	"grocery/internal/adapters/out/postgres/auditrepo"
	"grocery/internal/adapters/out/postgres/orderrepo"
	"grocery/internal/adapters/out/postgres/receiptrepo"
	"grocery/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	configs := getConfigs()

	gormDB := mustConnectDB(configs)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
	})
	minioClient := mustConnectMinio(configs)

	app := cmd.NewCompositionRoot(configs, gormDB, redisClient, minioClient)

	jobManager, err := jobs.NewJobManager(app.CreateReextractReceiptsCommandHandler(), logger)
	if err != nil {
		log.Fatalf("Failed to create jobs: %v", err)
	}
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:       goDotEnvVariable("HTTP_PORT"),
		DBHost:         goDotEnvVariable("DB_HOST"),
		DBPort:         goDotEnvVariable("DB_PORT"),
		DBUser:         goDotEnvVariable("DB_USER"),
		DBPassword:     goDotEnvVariable("DB_PASSWORD"),
		DBName:         goDotEnvVariable("DB_NAME"),
		DBSslMode:      goDotEnvVariable("DB_SSLMODE"),
		RedisAddr:      goDotEnvVariable("REDIS_ADDR"),
		RedisPassword:  goDotEnvVariable("REDIS_PASSWORD"),
		MinioEndpoint:  goDotEnvVariable("MINIO_ENDPOINT"),
		MinioAccessKey: goDotEnvVariable("MINIO_ACCESS_KEY"),
		MinioSecretKey: goDotEnvVariable("MINIO_SECRET_KEY"),
		MinioBucket:    goDotEnvVariable("MINIO_BUCKET"),
		MinioUseSSL:    goDotEnvVariable("MINIO_USE_SSL") == "true",
		OpenAIAPIKey:   goDotEnvVariable("OPENAI_API_KEY"),
		OpenAIModel:    goDotEnvVariable("OPENAI_MODEL"),
		JWTSecret:      goDotEnvVariable("JWT_SECRET"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&receiptrepo.ReceiptDTO{},
		&auditrepo.EntryDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return gormDB
}

func mustConnectMinio(configs cmd.Config) *minio.Client {
	minioClient, err := minio.New(configs.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(configs.MinioAccessKey, configs.MinioSecretKey, ""),
		Secure: configs.MinioUseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	return minioClient
}

func startWebServer(app cmd.CompositionRoot, configs cmd.Config) {
	if err := app.EnsureReceiptBucket(context.Background()); err != nil {
		log.Fatalf("Failed to prepare receipt image bucket: %v", err)
	}

	server := grocerhttp.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateClaimOrderCommandHandler(),
		app.CreateStartShoppingCommandHandler(),
		app.CreateSubmitReceiptCommandHandler(),
		app.CreateReviewReceiptCommandHandler(),
		app.CreateCompleteDeliveryCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetAuditTrailQueryHandler(),
		app.CreateGetClaimableOrdersQueryHandler(),
		app.ImageStore(),
	)

	e := echo.New()
	server.RegisterRoutes(e, grocerhttp.AuthMiddleware([]byte(configs.JWTSecret)))

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)))
}
