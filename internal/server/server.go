package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"drawboard-backend/internal/auth"
	"drawboard-backend/internal/config"
	"drawboard-backend/internal/handler"
	"drawboard-backend/internal/history"
	"drawboard-backend/internal/presence"
	"drawboard-backend/internal/relay"
)

// Server Fiber 서버 래퍼
type Server struct {
	app            *fiber.App
	cfg            *config.Config
	db             *gorm.DB
	hub            *relay.Hub
	authHandler    *handler.AuthHandler
	roomHandler    *handler.RoomHandler
	healthHandler  *handler.HealthHandler
	boardWSHandler *handler.BoardWSHandler
	tokens         *auth.TokenManager
	sweeperCancel  context.CancelFunc
}

// New 새 서버 인스턴스 생성. pres 는 nil 가능 (presence 비활성화).
func New(cfg *config.Config, db *gorm.DB, pres *presence.Manager) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "Drawboard Sync Gateway",
		ServerHeader:          "Fiber",
		StrictRouting:         true,
		CaseSensitive:         true,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           cfg.Server.IdleTimeout,
		Prefork:               false, // WebSocket과 호환성 문제로 비활성화
		ReadBufferSize:        16384,
		WriteBufferSize:       16384,
		BodyLimit:             10 * 1024 * 1024,
		DisableStartupMessage: false,
	})

	// Auth 초기화
	tokens := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)
	google := auth.NewGoogleVerifier(cfg.Auth.GoogleClientID)
	authHandler := handler.NewAuthHandler(db, tokens, google, cfg.Auth.SecureCookie, cfg.Auth.AccessTokenExpiry)

	// 도형 저장소 + 릴레이 허브
	hist := history.NewGormStore(db)
	var hubPresence relay.Presence
	if pres != nil {
		hubPresence = pres
	}
	hub := relay.NewHub(hist, hubPresence)

	return &Server{
		app:            app,
		cfg:            cfg,
		db:             db,
		hub:            hub,
		authHandler:    authHandler,
		roomHandler:    handler.NewRoomHandler(db, hist, pres),
		healthHandler:  handler.NewHealthHandler(db, pres, hub.Registry()),
		boardWSHandler: handler.NewBoardWSHandler(hub),
		tokens:         tokens,
	}
}

// SetupMiddleware 미들웨어 설정
func (s *Server) SetupMiddleware() {
	// 패닉 복구
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// 로깅
	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Seoul",
	}))

	// CORS
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORS.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
}

// SetupRoutes 라우트 설정
func (s *Server) SetupRoutes() {
	// 헬스체크 엔드포인트
	s.app.Get("/health", s.healthHandler.Check)
	s.app.Get("/health/live", s.healthHandler.Liveness)
	s.app.Get("/health/ready", s.healthHandler.Readiness)

	// Rate Limiter 설정 (인증 엔드포인트용 - Brute Force 방지)
	authLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests, please try again later",
			})
		},
	})

	// Auth 라우트 그룹
	authGroup := s.app.Group("/auth")
	authGroup.Post("/google", authLimiter, s.authHandler.GoogleLogin)
	authGroup.Post("/refresh", authLimiter, s.authHandler.RefreshToken)
	authGroup.Post("/logout", auth.RequireUser(s.tokens), s.authHandler.Logout)
	authGroup.Get("/me", auth.RequireUser(s.tokens), s.authHandler.GetMe)

	// Room 라우트 그룹 (인증 필요)
	roomGroup := s.app.Group("/api/rooms", auth.RequireUser(s.tokens))
	roomGroup.Post("/", s.roomHandler.CreateRoom)
	roomGroup.Get("/", s.roomHandler.GetMyRooms)
	roomGroup.Get("/:id", s.roomHandler.GetRoom)
	roomGroup.Get("/:id/shapes", s.roomHandler.GetRoomShapes)
	roomGroup.Get("/:id/members", s.roomHandler.GetRoomMembers)

	// WebSocket 업그레이드 체크 미들웨어
	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket 보드 엔드포인트
	s.app.Get("/ws/board", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// 쿠키 또는 쿼리 파라미터에서 JWT 토큰 추출
		accessToken := c.Cookies("access_token")
		if accessToken == "" {
			accessToken = c.Query("token")
		}
		if accessToken == "" {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		// JWT 검증
		claims, err := s.tokens.ValidateAccessToken(accessToken)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		c.Locals("userId", claims.UserID)
		c.Locals("nickname", claims.Nickname)

		return c.Next()
	}, websocket.New(s.boardWSHandler.HandleWebSocket, websocket.Config{
		ReadBufferSize:  s.cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: s.cfg.WebSocket.WriteBufferSize,
	}))
}

// Start 서버 시작 (Graceful Shutdown 지원)
func (s *Server) Start() error {
	// 유휴 연결 청소기
	sweepCtx, cancel := context.WithCancel(context.Background())
	s.sweeperCancel = cancel
	go s.hub.RunSweeper(sweepCtx, s.cfg.Board.LivenessTimeout, s.cfg.Board.SweepInterval)

	// Graceful Shutdown 설정
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("🛑 Shutting down server...")
		cancel()
		if err := s.app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Fatalf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("🚀 Drawboard Sync Gateway starting on %s", s.cfg.Server.Port)
	log.Printf("📡 WebSocket endpoint: ws://localhost%s/ws/board", s.cfg.Server.Port)

	return s.app.Listen(s.cfg.Server.Port)
}

// Shutdown 서버 종료
func (s *Server) Shutdown() error {
	if s.sweeperCancel != nil {
		s.sweeperCancel()
	}
	return s.app.ShutdownWithTimeout(30 * time.Second)
}
