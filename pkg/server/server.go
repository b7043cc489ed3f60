// Package server exposes the news service over HTTP with Fiber.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/marshallshelly/pebble-news/pkg/news"
)

// Options configures a Server. Zero values disable the optional parts.
type Options struct {
	Logger       logrus.FieldLogger
	Ping         func(context.Context) error
	RateLimitRPS float64
	RateBurst    int
	CORSOrigins  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server routes HTTP requests to a news.Service.
type Server struct {
	app  *fiber.App
	news *news.Service
	log  logrus.FieldLogger
	ping func(context.Context) error
}

// New builds the Fiber application and registers every route.
func New(svc *news.Service, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Server{
		news: svc,
		log:  log,
		ping: opts.Ping,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "pebble-news",
		ErrorHandler:          s.handleError,
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		DisableStartupMessage: true,
	})

	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}

	// Middleware
	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	s.app.Use(s.accessLog)
	s.app.Use(cors.New(cors.Config{AllowOrigins: origins}))
	if opts.RateLimitRPS > 0 {
		s.app.Use(rateLimit(opts.RateLimitRPS, opts.RateBurst))
	}

	s.app.Get("/healthz", s.health)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api")
	api.Get("/", s.getEndpoints)

	api.Get("/topics", s.getTopics)
	api.Post("/topics", s.postTopic)

	api.Get("/articles", s.getArticles)
	api.Post("/articles", s.postArticle)
	api.Get("/articles/:article_id", s.getArticle)
	api.Patch("/articles/:article_id", s.patchArticleVotes)
	api.Delete("/articles/:article_id", s.deleteArticle)
	api.Get("/articles/:article_id/comments", s.getArticleComments)
	api.Post("/articles/:article_id/comments", s.postComment)

	api.Patch("/comments/:comment_id", s.patchCommentVotes)
	api.Delete("/comments/:comment_id", s.deleteComment)

	api.Get("/users", s.getUsers)
	api.Get("/users/:username", s.getUser)

	// Catch all unknown routes
	s.app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	return s
}

// App returns the underlying Fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.WithField("addr", addr).Info("pebble-news listening")
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) health(c *fiber.Ctx) error {
	if s.ping != nil {
		if err := s.ping(c.UserContext()); err != nil {
			s.log.WithError(err).Warn("health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
	}
	return c.JSON(fiber.Map{"status": "healthy"})
}
