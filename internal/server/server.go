// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/auth"
	"github.com/1willcobb/myfilmfriends-server/internal/cache"
	"github.com/1willcobb/myfilmfriends-server/internal/config"
	"github.com/1willcobb/myfilmfriends-server/internal/database"
	"github.com/1willcobb/myfilmfriends-server/internal/middleware"
	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/notifications"
	"github.com/1willcobb/myfilmfriends-server/internal/observability"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
	"github.com/1willcobb/myfilmfriends-server/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo repository.UserRepository
	sessions auth.SessionStore
	tokens   *auth.TokenIssuer
	session  *auth.SessionStrategy
	guard    *auth.Guard
	notifier *notifications.Notifier

	authService         *service.AuthService
	passwordService     *service.PasswordService
	userService         *service.UserService
	postService         *service.PostService
	blogService         *service.BlogService
	commentService      *service.CommentService
	likeService         *service.LikeService
	voteService         *service.VoteService
	followService       *service.FollowService
	chatService         *service.ChatService
	notificationService *service.NotificationService
}

// NewServer connects to the database and Redis described by cfg and builds a Server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return NewServerWithDeps(cfg, db, cache.InitRedis(cfg.RedisURL))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case sessions live in the database and
// realtime notifications are disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	cache.SetClient(redisClient)

	var sessions auth.SessionStore
	if redisClient != nil && cfg.SessionStore != "database" {
		sessions = auth.NewRedisSessionStore(redisClient, cfg.SessionTTL())
	} else {
		if cfg.SessionStore == "redis" {
			observability.Logger.Warn("redis unavailable, storing sessions in the database")
		}
		sessions = auth.NewDBSessionStore(db, cfg.SessionTTL())
	}

	userRepo := repository.NewUserRepository(db)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL())
	session := auth.NewSessionStrategy(sessions, auth.CookieConfig{Secure: cfg.CookieSecure, TTL: cfg.SessionTTL()})

	shutdownCtx, shutdownFn := context.WithCancel(context.Background())

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("myfilmfriends-api"),
		shutdownCtx:    shutdownCtx,
		shutdownFn:     shutdownFn,
		userRepo:       userRepo,
		sessions:       sessions,
		tokens:         tokens,
		session:        session,
		guard:          auth.NewGuard(userRepo, session, auth.NewBearerStrategy(tokens)),
		notifier:       notifications.NewNotifier(redisClient),
	}

	s.authService = service.NewAuthService(userRepo, sessions, tokens)
	s.passwordService = service.NewPasswordService(userRepo, repository.NewPasswordResetRepository(db), cfg.ResetTokenTTL())
	s.userService = service.NewUserService(userRepo)
	s.postService = service.NewPostService(repository.NewPostRepository(db))
	s.blogService = service.NewBlogService(repository.NewBlogRepository(db))
	s.commentService = service.NewCommentService(repository.NewCommentRepository(db))
	s.likeService = service.NewLikeService(repository.NewLikeRepository(db))
	s.voteService = service.NewVoteService(repository.NewVoteRepository(db))
	s.followService = service.NewFollowService(repository.NewFollowRepository(db))
	s.notificationService = service.NewNotificationService(repository.NewNotificationRepository(db), s.notifier)
	s.chatService = service.NewChatService(repository.NewChatRepository(db), s.notificationService)

	return s, nil
}

// Sessions exposes the session store so the entrypoint can sweep it.
func (s *Server) Sessions() auth.SessionStore {
	return s.sessions
}

// Shutdown closes realtime connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownFn()
	return nil
}

// cookieKey derives the 32-byte encryptcookie key from SESSION_SECRET.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Session-ID, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		ExposeHeaders:    "X-Session-ID, X-Trace-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: cookieKey(s.config.SessionSecret),
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Message: "Too many requests, please try again later",
				Code:    models.CodeRateLimited,
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	required := s.guard.Required()

	app.Get("/", s.Welcome)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/", s.APIIndex)

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	authGroup.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	authGroup.Post("/logout", s.Logout)
	authGroup.Post("/refresh", s.Refresh)
	authGroup.Get("/me", required, s.Me)

	password := api.Group("/password")
	password.Post("/request-password-reset",
		middleware.RateLimit(s.redis, 5, 15*time.Minute, "password_reset"), s.RequestPasswordReset)
	password.Get("/reset-token/:token", s.ValidateResetToken)
	password.Post("/reset-password", s.ResetPassword)

	users := api.Group("/users")
	users.Get("/", s.GetUsers)
	users.Put("/me", required, s.UpdateMyProfile)
	users.Delete("/me", required, s.DeleteMyAccount)
	users.Get("/:userId", s.GetUser)

	// Specific /posts routes before generic /:postId
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/feed", required, s.GetFeed)
	posts.Get("/user/:userId", s.GetUserPosts)
	posts.Get("/top/monthly", s.GetTopMonthlyPosts)
	posts.Get("/:postId/surrounding", s.GetSurroundingPosts)
	posts.Get("/:postId", s.GetPost)
	posts.Post("/", required, s.CreatePost)
	posts.Put("/:postId", required, s.UpdatePost)
	posts.Delete("/:postId", required, s.DeletePost)

	blogs := api.Group("/blogs")
	blogs.Get("/", s.GetBlogs)
	blogs.Get("/:blogId", s.GetBlog)
	blogs.Post("/", required, s.CreateBlog)
	blogs.Put("/:blogId", required, s.UpdateBlog)
	blogs.Delete("/:blogId", required, s.DeleteBlog)

	comments := api.Group("/comments")
	comments.Get("/", s.GetComments)
	comments.Post("/", required, s.CreateComment)
	comments.Put("/:commentId", required, s.UpdateComment)
	comments.Delete("/:commentId", required, s.DeleteComment)

	likes := api.Group("/likes")
	likes.Get("/", s.GetLikes)
	likes.Get("/status", required, s.GetLikeStatus)
	likes.Get("/:likeId", s.GetLike)
	likes.Post("/", required, s.CreateLike)
	likes.Delete("/", required, s.DeleteLike)

	votes := api.Group("/votes")
	votes.Get("/post/:postId", s.GetPostVotes)
	votes.Get("/status", required, s.GetVoteStatus)
	votes.Post("/", required, s.CreateVote)
	votes.Delete("/", required, s.DeleteVote)

	follows := api.Group("/follows")
	follows.Get("/followers/:userId", s.GetFollowers)
	follows.Get("/following/:userId", s.GetFollowing)
	follows.Post("/", required, s.Follow)
	follows.Delete("/:followedId", required, s.Unfollow)

	chats := api.Group("/chats", required)
	chats.Post("/", s.CreateChat)
	chats.Get("/", s.GetChats)
	chats.Post("/participants", s.FindChatByParticipants)
	chats.Get("/:chatId/messages", s.GetMessages)
	chats.Post("/:chatId/messages", middleware.RateLimit(s.redis, 30, time.Minute, "send_message"), s.SendMessage)
	chats.Get("/:chatId", s.GetChat)
	chats.Delete("/:chatId", s.DeleteChat)
	api.Delete("/messages/:messageId", required, s.DeleteMessage)

	notes := api.Group("/notifications", required)
	notes.Get("/", s.GetNotifications)
	notes.Post("/", auth.AdminRequired(), s.CreateNotification)
	notes.Delete("/", s.DeleteAllNotifications)
	notes.Patch("/:notificationId/read", s.MarkNotificationRead)
	notes.Delete("/:notificationId", s.DeleteNotification)

	api.Get("/ws/notifications", required, s.NotificationsWebSocket())
}

// Welcome handles GET /
func (s *Server) Welcome(c *fiber.Ctx) error {
	return c.SendString("Welcome to My Film Friends API")
}

// APIIndex handles GET /api
func (s *Server) APIIndex(c *fiber.Ctx) error {
	return c.SendString("API Access working")
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional: when
// it was never configured the check reports it as disabled.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
