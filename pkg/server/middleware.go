package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// accessLog logs one line per request. Errors are rendered here so the
// logged status is the one the client receives.
func (s *Server) accessLog(c *fiber.Ctx) error {
	start := time.Now()
	chainErr := c.Next()
	if chainErr != nil {
		if err := c.App().Config().ErrorHandler(c, chainErr); err != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()
	entry := s.log.WithFields(logrus.Fields{
		"method":     c.Method(),
		"path":       c.Path(),
		"status":     status,
		"latency":    time.Since(start).String(),
		"request_id": c.Locals("requestid"),
	})
	if status >= fiber.StatusInternalServerError {
		entry.Warn("request")
	} else {
		entry.Info("request")
	}
	return nil
}

// rateLimit rejects requests beyond rps (with burst) with 429.
func rateLimit(rps float64, burst int) fiber.Handler {
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(c *fiber.Ctx) error {
		if !limiter.Allow() {
			return fiber.ErrTooManyRequests
		}
		return c.Next()
	}
}
