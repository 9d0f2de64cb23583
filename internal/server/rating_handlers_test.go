package server

import (
	"fmt"
	"net/http"
	"testing"

	"photoshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateImage(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	author := env.createUser(t, "author", models.RoleUser)
	rater := env.createUser(t, "rater", models.RoleUser)
	env.uploadImage(t, author, "rate me", "")

	t.Run("out of range", func(t *testing.T) {
		for _, v := range []int{0, 6} {
			resp := env.doJSON(t, http.MethodPost, "/api/images/1/ratings",
				map[string]int{"rating": v}, env.accessToken(t, rater))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		}
	})

	t.Run("author cannot rate their own image", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodPost, "/api/images/1/ratings",
			map[string]int{"rating": 5}, env.accessToken(t, author))
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		var body models.ErrorResponse
		decode(t, resp, &body)
		assert.Equal(t, "You cannot rate your own image", body.Error)
	})

	t.Run("success", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodPost, "/api/images/1/ratings",
			map[string]int{"rating": 4}, env.accessToken(t, rater))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var rating models.Rating
		decode(t, resp, &rating)
		assert.Equal(t, 4, rating.Rating)
		assert.Equal(t, rater.ID, rating.UserID)
	})

	t.Run("second rating conflicts", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodPost, "/api/images/1/ratings",
			map[string]int{"rating": 2}, env.accessToken(t, rater))
		require.Equal(t, http.StatusConflict, resp.StatusCode)

		var body models.ErrorResponse
		decode(t, resp, &body)
		assert.Equal(t, "Image already rated", body.Error)
	})

	t.Run("missing image", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodPost, "/api/images/999/ratings",
			map[string]int{"rating": 3}, env.accessToken(t, rater))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetAverageRating(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	author := env.createUser(t, "author", models.RoleUser)
	env.uploadImage(t, author, "average me", "")

	token := env.accessToken(t, author)

	t.Run("no ratings averages to zero", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodGet, "/api/images/1/ratings/average", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Average float64 `json:"average"`
		}
		decode(t, resp, &body)
		assert.Zero(t, body.Average)
	})

	t.Run("averages the submitted scores", func(t *testing.T) {
		for i, score := range []int{3, 5} {
			rater := env.createUser(t, fmt.Sprintf("rater%d", i), models.RoleUser)
			resp := env.doJSON(t, http.MethodPost, "/api/images/1/ratings",
				map[string]int{"rating": score}, env.accessToken(t, rater))
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			_ = resp.Body.Close()
		}

		resp := env.doJSON(t, http.MethodGet, "/api/images/1/ratings/average", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Average float64 `json:"average"`
		}
		decode(t, resp, &body)
		assert.InDelta(t, 4.0, body.Average, 0.001)
	})

	t.Run("missing image", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodGet, "/api/images/999/ratings/average", nil, token)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteRating(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	author := env.createUser(t, "author", models.RoleUser)
	rater := env.createUser(t, "rater", models.RoleUser)
	stranger := env.createUser(t, "stranger", models.RoleUser)
	moderator := env.createUser(t, "mod", models.RoleModerator)
	env.uploadImage(t, author, "contested", "")

	rate := func(t *testing.T) uint {
		resp := env.doJSON(t, http.MethodPost, "/api/images/1/ratings",
			map[string]int{"rating": 4}, env.accessToken(t, rater))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var rating models.Rating
		decode(t, resp, &rating)
		return rating.ID
	}
	ratingID := rate(t)
	path := fmt.Sprintf("/api/ratings/%d", ratingID)

	t.Run("stranger cannot delete", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodDelete, path, nil, env.accessToken(t, stranger))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("owner can delete", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodDelete, path, nil, env.accessToken(t, rater))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("moderator can delete", func(t *testing.T) {
		resp := env.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/ratings/%d", rate(t)),
			nil, env.accessToken(t, moderator))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
