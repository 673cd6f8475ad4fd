package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/amankumarsingh77/hoopcast/internal/config"
	"github.com/amankumarsingh77/hoopcast/internal/server"
	"github.com/amankumarsingh77/hoopcast/pkg/db/aws"
	redisdb "github.com/amankumarsingh77/hoopcast/pkg/db/redis"
	"github.com/amankumarsingh77/hoopcast/pkg/logger"
)

func main() {
	log.Println("Starting server")
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	configFile := os.Getenv("CONFIG_PATH")
	if configFile == "" {
		configFile = "config.yml"
	}
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	var redisClient *redis.Client
	if cfg.JobStore.Driver == config.JobStoreRedis {
		redisClient, err = redisdb.NewRedisClient(cfg)
		if err != nil {
			appLogger.Fatalf("could not connect to redis: %v", err)
		}
		defer redisClient.Close()
		appLogger.Infof("redis connected")
	}

	var s3Client *s3.Client
	var presignClient *s3.PresignClient
	if cfg.S3.Enabled {
		s3Client, presignClient, err = aws.NewAWSClient(context.Background(), cfg.S3)
		if err != nil {
			appLogger.Warnf("could not configure s3, archival disabled: %v", err)
			cfg.S3.Enabled = false
		}
	}

	s := server.NewServer(cfg, redisClient, s3Client, presignClient, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Errorf("server stopped: %v", err)
	}
}
