package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/ashwinyue/edu-ai/internal/config"
	"github.com/ashwinyue/edu-ai/internal/database"
	"github.com/ashwinyue/edu-ai/internal/handler"
	"github.com/ashwinyue/edu-ai/internal/repository"
	"github.com/ashwinyue/edu-ai/internal/router"
	"github.com/ashwinyue/edu-ai/internal/service"
	"github.com/ashwinyue/edu-ai/internal/service/auth"
	"github.com/ashwinyue/edu-ai/internal/service/callback"
)

func main() {
	issueFor := flag.String("issue-token", "", "为指定用户签发访问令牌后退出")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "签发令牌的有效期")
	flag.Parse()

	// .env 文件可选
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *issueFor != "" {
		token, err := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.Issuer).IssueToken(*issueFor, *tokenTTL)
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	// 设置 Gin 模式
	gin.SetMode(cfg.Server.Mode)
	handler.SetDebug(cfg.App.Debug)

	// 初始化数据库
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connected: %s (%s)", cfg.Database.DBName, cfg.Database.Driver)

	// 初始化 Redis，仅用于生成结果缓存
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	callback.SetupGlobalCallbacks(cfg.App.Debug)

	// 初始化各层
	ctx := context.Background()
	repos := repository.NewRepositories(db.DB)
	services, err := service.NewServices(ctx, repos, cfg, redisClient)
	if err != nil {
		log.Fatalf("Failed to init services: %v", err)
	}
	handlers := handler.NewHandlers(services, db.Ping)

	// 初始化路由
	r := router.SetupRouter(handlers, services.Auth)

	// 创建 HTTP 服务器
	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// 启动服务器
	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
