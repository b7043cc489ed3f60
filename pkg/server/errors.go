package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/marshallshelly/pebble-news/pkg/apperr"
)

// errorBody is the JSON body of every failed request.
type errorBody struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}

var notFoundMessages = map[apperr.Resource]string{
	apperr.Article: "No article found with that ID",
	apperr.Comment: "No comment found with that ID",
	apperr.User:    "Username not found",
	apperr.Topic:   "Topic not found",
}

// statusFor maps an error to the HTTP status and message reported for it.
func statusFor(err error) (int, string) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperr.MissingField:
			return fiber.StatusBadRequest, "Bad request: Missing required fields"
		case apperr.InvalidFormat:
			return fiber.StatusBadRequest, "Bad request: Invalid input format"
		case apperr.InvalidColumn:
			return fiber.StatusBadRequest, "Bad request: Invalid column name"
		case apperr.InvalidOrder:
			return fiber.StatusBadRequest, "Bad request: Invalid order"
		case apperr.InvalidFilterValue:
			return fiber.StatusBadRequest, "Bad request: Invalid topic"
		case apperr.NotFound:
			if msg, ok := notFoundMessages[appErr.Resource]; ok {
				return fiber.StatusNotFound, msg
			}
			return fiber.StatusNotFound, "Not found"
		case apperr.MalformedIdentifier:
			return fiber.StatusBadRequest, "Bad request"
		case apperr.Conflict:
			if appErr.Resource == apperr.Topic {
				return fiber.StatusConflict, "Topic already exists"
			}
			return fiber.StatusConflict, "Conflict"
		}
		return fiber.StatusInternalServerError, "Internal server error"
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return fiber.StatusNotFound, "Not found"
		case fiber.StatusTooManyRequests:
			return fiber.StatusTooManyRequests, "Too many requests"
		}
		return fiberErr.Code, fiberErr.Message
	}

	return fiber.StatusInternalServerError, "Internal server error"
}

// handleError is the Fiber ErrorHandler. Server-side failures are logged
// with their cause; the client only sees the generic message.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status, msg := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		s.log.WithError(err).WithField("request_id", c.Locals("requestid")).Error("request failed")
	}
	return c.Status(status).JSON(errorBody{Status: status, Msg: msg})
}
