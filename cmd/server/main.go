package main

import (
	"context"
	"log"
	"time"

	"drawboard-backend/internal/config"
	"drawboard-backend/internal/database"
	"drawboard-backend/internal/presence"
	"drawboard-backend/internal/server"
)

func main() {
	// 설정 로드
	cfg := config.Load()

	// 데이터베이스 연결
	db, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	defer database.Close()

	// Ping 테스트
	if err := database.Ping(); err != nil {
		log.Fatalf("❌ Database ping failed: %v", err)
	}
	log.Printf("✅ Database connected successfully")

	// DB 버전 확인
	var version string
	db.Raw("SELECT version()").Scan(&version)
	log.Printf("📦 PostgreSQL: %s", version[:50]+"...")

	// Redis presence (선택적)
	var pres *presence.Manager
	if cfg.Redis.Enabled {
		pres = presence.NewManager(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := pres.Ping(ctx); err != nil {
			log.Printf("⚠️ Redis unreachable, presence disabled: %v", err)
			pres = nil
		} else {
			log.Printf("✅ Redis connected (presence enabled)")
		}
		cancel()
	} else {
		log.Println("ℹ️ Redis not enabled, presence disabled")
	}

	// 서버 생성 및 설정
	srv := server.New(cfg, db, pres)
	srv.SetupMiddleware()
	srv.SetupRoutes()

	// 서버 시작
	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
