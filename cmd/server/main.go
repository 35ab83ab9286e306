package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"campus-cafe/backend/config"
	"campus-cafe/backend/internal/api/handler"
	"campus-cafe/backend/internal/api/router"
	"campus-cafe/backend/internal/repository"
	"campus-cafe/backend/internal/service"
	"campus-cafe/backend/pkg/database"
	"campus-cafe/backend/pkg/jwt"
	"campus-cafe/backend/pkg/logger"
	"campus-cafe/backend/pkg/redis"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "配置文件路径")
	flag.Parse()

	// ── 配置 ──
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// ── 日志 ──
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// ── 数据库 ──
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, log)
	if err != nil {
		log.Fatal("初始化数据库失败", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	defer sqlDB.Close()

	// ── 数据库迁移 ──
	if err := database.RunMigrations(sqlDB, log); err != nil {
		log.Fatal("数据库迁移失败", zap.Error(err))
	}

	// ── Redis（可降级）──
	rdb, err := redis.NewClient(&cfg.Redis, log)
	if err != nil {
		// Redis 挂了不拦启动：黑名单、限流与在线统计降级
		log.Warn("Redis 初始化失败，相关功能降级", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// ── 组装各层 ──
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, log)
	h := handler.NewHandler(svc, log)
	engine := router.New(cfg, h, jwtMgr, rdb, log)

	// ── 启动 HTTP 服务 ──
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	// ── 优雅退出 ──
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("收到退出信号，开始优雅关闭")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("优雅关闭失败", zap.Error(err))
	}

	log.Info("服务已退出")
}
