package server

import (
	"net/http/httptest"
	"testing"

	"github.com/1willcobb/myfilmfriends-server/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  repository.Page
	}{
		{"", repository.Page{Limit: 10, Offset: 0}},
		{"?page=3", repository.Page{Limit: 10, Offset: 20}},
		{"?page=2&pageSize=25", repository.Page{Limit: 25, Offset: 25}},
		{"?pageSize=1000", repository.Page{Limit: 100, Offset: 0}},
		{"?page=0&pageSize=-5", repository.Page{Limit: 10, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			app := fiber.New()
			var got repository.Page
			app.Get("/", func(c *fiber.Ctx) error {
				got = parsePagination(c)
				return nil
			})
			_, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHumanizeParam(t *testing.T) {
	tests := map[string]string{
		"id":             "ID",
		"userId":         "user ID",
		"followedId":     "followed ID",
		"notificationId": "notification ID",
		"token":          "token",
	}
	for in, want := range tests {
		assert.Equal(t, want, humanizeParam(in), in)
	}
}

func TestParseIDRejectsInvalid(t *testing.T) {
	s := &Server{}
	app := fiber.New()
	app.Get("/posts/:postId", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "postId")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	for _, path := range []string{"/posts/abc", "/posts/0", "/posts/-4"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode, path)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/posts/7", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
