package server

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/1willcobb/myfilmfriends-server/internal/auth"
	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/observability"
	"github.com/1willcobb/myfilmfriends-server/internal/repository"
	"github.com/1willcobb/myfilmfriends-server/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// parsePagination reads page (1-based) and pageSize query parameters.
func parsePagination(c *fiber.Ctx) repository.Page {
	size := c.QueryInt("pageSize", defaultPageSize)
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return repository.Page{Limit: size, Offset: (page - 1) * size}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// queryID reads an optional positive id from the query string. Absent means 0.
func (s *Server) queryID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(name)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// queryTarget resolves the postId, commentId or blogId query parameter.
func (s *Server) queryTarget(c *fiber.Ctx) (models.LikeTarget, error) {
	var ids [3]uint
	for i, name := range []string{"postId", "commentId", "blogId"} {
		id, err := s.queryID(c, name)
		if err != nil {
			return models.LikeTarget{}, err
		}
		ids[i] = id
	}
	target, err := service.ResolveTarget(ids[0], ids[1], ids[2])
	if err != nil {
		_ = s.respondError(c, err)
		return models.LikeTarget{}, errResponseWritten
	}
	return target, nil
}

// humanizeParam converts a parameter name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID", "followedId" -> "followed ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}

// respondError writes err with the status its code maps to. Internal causes
// are logged here and never reach the client.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status == fiber.StatusInternalServerError {
		observability.Logger.ErrorContext(c.UserContext(), "request error",
			"path", c.Path(), "method", c.Method(), "error", err)
	}
	return models.RespondWithError(c, status, err)
}

// badBody answers an unparsable request body.
func badBody(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError("Invalid request body"))
}

// callerID returns the guarded caller. Routes using it are always behind the guard.
func callerID(c *fiber.Ctx) uint {
	id, _ := auth.CallerID(c)
	return id
}

// actor describes the guarded caller for ownership checks.
func actor(c *fiber.Ctx) service.Actor {
	return service.Actor{ID: callerID(c), Admin: auth.CallerIsAdmin(c)}
}

// listBody builds the standard list envelope.
func listBody(key string, items interface{}, more bool, p repository.Page) fiber.Map {
	return fiber.Map{key: items, "hasMore": more, "pageSize": p.Limit}
}
