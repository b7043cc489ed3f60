package server

import (
	_ "embed"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/marshallshelly/pebble-news/pkg/validate"
)

//go:embed endpoints.json
var endpointsJSON []byte

func (s *Server) getEndpoints(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"endpoints": json.RawMessage(endpointsJSON)})
}

// query adapts the request's query string to the validators.
func query(c *fiber.Ctx) func(string) string {
	return func(key string) string { return c.Query(key) }
}

// Topic handlers

func (s *Server) getTopics(c *fiber.Ctx) error {
	topics, err := s.news.ListTopics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"topics": topics})
}

func (s *Server) postTopic(c *fiber.Ctx) error {
	in, err := validate.ParseNewTopic(c.Body())
	if err != nil {
		return err
	}
	topic, err := s.news.AddTopic(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"topic": topic})
}

// Article handlers

func (s *Server) getArticles(c *fiber.Ctx) error {
	params, err := validate.ParseArticleListQuery(query(c))
	if err != nil {
		return err
	}
	page, err := s.news.ListArticles(c.UserContext(), params)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (s *Server) postArticle(c *fiber.Ctx) error {
	in, err := validate.ParseNewArticle(c.Body())
	if err != nil {
		return err
	}
	article, err := s.news.AddArticle(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"article": article})
}

func (s *Server) getArticle(c *fiber.Ctx) error {
	id, err := validate.ParseID(c.Params("article_id"))
	if err != nil {
		return err
	}
	article, err := s.news.GetArticle(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"article": article})
}

func (s *Server) patchArticleVotes(c *fiber.Ctx) error {
	id, err := validate.ParseID(c.Params("article_id"))
	if err != nil {
		return err
	}
	inc, err := validate.ParseVoteIncrement(c.Body())
	if err != nil {
		return err
	}
	article, err := s.news.IncrementArticleVotes(c.UserContext(), id, inc)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"article": article})
}

func (s *Server) deleteArticle(c *fiber.Ctx) error {
	id, err := validate.ParseID(c.Params("article_id"))
	if err != nil {
		return err
	}
	if err := s.news.RemoveArticle(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Comment handlers

func (s *Server) getArticleComments(c *fiber.Ctx) error {
	id, err := validate.ParseID(c.Params("article_id"))
	if err != nil {
		return err
	}
	page, err := validate.ParsePagination(query(c))
	if err != nil {
		return err
	}
	comments, err := s.news.ListArticleComments(c.UserContext(), id, page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"comments": comments})
}

func (s *Server) postComment(c *fiber.Ctx) error {
	id, err := validate.ParseID(c.Params("article_id"))
	if err != nil {
		return err
	}
	in, err := validate.ParseNewComment(c.Body())
	if err != nil {
		return err
	}
	comment, err := s.news.AddComment(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": comment})
}

func (s *Server) patchCommentVotes(c *fiber.Ctx) error {
	id, err := validate.ParseID(c.Params("comment_id"))
	if err != nil {
		return err
	}
	inc, err := validate.ParseVoteIncrement(c.Body())
	if err != nil {
		return err
	}
	comment, err := s.news.IncrementCommentVotes(c.UserContext(), id, inc)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"comment": comment})
}

func (s *Server) deleteComment(c *fiber.Ctx) error {
	id, err := validate.ParseID(c.Params("comment_id"))
	if err != nil {
		return err
	}
	if err := s.news.RemoveComment(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// User handlers

func (s *Server) getUsers(c *fiber.Ctx) error {
	users, err := s.news.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": users})
}

func (s *Server) getUser(c *fiber.Ctx) error {
	username, err := validate.ParseUsername(c.Params("username"))
	if err != nil {
		return err
	}
	user, err := s.news.GetUser(c.UserContext(), username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}
