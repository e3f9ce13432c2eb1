package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"masterblog/app/models"
	"masterblog/app/repositories"
	"masterblog/app/services"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenRepo struct{}

func (brokenRepo) Load() ([]models.Post, error) { return nil, errors.New("read failed") }
func (brokenRepo) Save([]models.Post) error     { return errors.New("write failed") }

func setupTestPostController(t *testing.T, repo repositories.PostRepository) (*PostController, *bytes.Buffer) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	return NewPostController(services.NewPostService(repo), logger), &logs
}

func setupRouter(controller *PostController) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/posts", controller.Create).Methods("POST")
	router.HandleFunc("/posts", controller.Index).Methods("GET")
	router.HandleFunc("/posts/search", controller.Search).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}", controller.Show).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}", controller.Update).Methods("PUT")
	router.HandleFunc("/posts/{id:[0-9]+}", controller.Delete).Methods("DELETE")

	return router
}

func do(router http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodePosts(t *testing.T, w *httptest.ResponseRecorder) []models.Post {
	var posts []models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	return posts
}

func TestPostController(t *testing.T) {
	repo := repositories.NewMemoryPostRepository(models.SeedPosts()...)
	controller, _ := setupTestPostController(t, repo)
	router := setupRouter(controller)

	t.Run("list posts", func(t *testing.T) {
		w := do(router, http.MethodGet, "/posts", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Equal(t, models.SeedPosts(), decodePosts(t, w))
	})

	t.Run("create post", func(t *testing.T) {
		w := do(router, http.MethodPost, "/posts", strings.NewReader(`{"title":"Third","content":"C"}`))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":3,"title":"Third","content":"C"}`, w.Body.String())
	})

	t.Run("get post", func(t *testing.T) {
		w := do(router, http.MethodGet, "/posts/3", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":3,"title":"Third","content":"C"}`, w.Body.String())
	})

	t.Run("get missing post", func(t *testing.T) {
		w := do(router, http.MethodGet, "/posts/99", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Post with id 99 not found."}`, w.Body.String())
	})

	t.Run("update post", func(t *testing.T) {
		w := do(router, http.MethodPut, "/posts/3", strings.NewReader(`{"title":"Updated Title"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":3,"title":"Updated Title","content":"C"}`, w.Body.String())
	})

	t.Run("update with empty object", func(t *testing.T) {
		w := do(router, http.MethodPut, "/posts/3", strings.NewReader(`{}`))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":3,"title":"Updated Title","content":"C"}`, w.Body.String())
	})

	t.Run("update missing post", func(t *testing.T) {
		w := do(router, http.MethodPut, "/posts/42", strings.NewReader(`{"title":"x"}`))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Post with id 42 not found."}`, w.Body.String())
	})

	t.Run("update with malformed body", func(t *testing.T) {
		for _, body := range []string{"", "not json", `{"title": 5}`, `["title"]`} {
			w := do(router, http.MethodPut, "/posts/3", strings.NewReader(body))

			assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
			assert.JSONEq(t, `{"error":"Invalid request body"}`, w.Body.String())
		}
	})

	t.Run("delete post", func(t *testing.T) {
		w := do(router, http.MethodDelete, "/posts/1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Post with id 1 has been deleted successfully."}`, w.Body.String())

		w = do(router, http.MethodGet, "/posts/1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete missing post", func(t *testing.T) {
		before, err := repo.Load()
		require.NoError(t, err)

		w := do(router, http.MethodDelete, "/posts/1", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Post with id 1 not found."}`, w.Body.String())

		after, err := repo.Load()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("id that overflows int", func(t *testing.T) {
		w := do(router, http.MethodDelete, "/posts/99999999999999999999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Post with id 99999999999999999999 not found."}`, w.Body.String())
	})

	t.Run("validation errors", func(t *testing.T) {
		payloads := map[string]string{
			"empty title":   `{"title":"","content":"Valid content"}`,
			"empty content": `{"title":"Valid Title","content":""}`,
			"missing field": `{"title":"Valid Title"}`,
			"null body":     `null`,
			"empty body":    ``,
			"not json":      `title=x&content=y`,
			"wrong type":    `{"title":1,"content":"x"}`,
		}

		for name, payload := range payloads {
			t.Run(name, func(t *testing.T) {
				w := do(router, http.MethodPost, "/posts", strings.NewReader(payload))

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.JSONEq(t, `{"error":"Missing title or content"}`, w.Body.String())
			})
		}
	})
}

func TestPostControllerSorting(t *testing.T) {
	controller, _ := setupTestPostController(t, repositories.NewMemoryPostRepository(models.SeedPosts()...))
	router := setupRouter(controller)

	t.Run("title desc", func(t *testing.T) {
		w := do(router, http.MethodGet, "/posts?sort=title&direction=desc", nil)

		require.Equal(t, http.StatusOK, w.Code)
		posts := decodePosts(t, w)
		require.Len(t, posts, 2)
		assert.Equal(t, "Second post", posts[0].Title)
		assert.Equal(t, "First post", posts[1].Title)
	})

	t.Run("content default direction", func(t *testing.T) {
		w := do(router, http.MethodGet, "/posts?sort=content", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.SeedPosts(), decodePosts(t, w))
	})

	for _, target := range []string{"/posts?sort=author", "/posts?sort=title&direction=sideways"} {
		t.Run("invalid "+target, func(t *testing.T) {
			w := do(router, http.MethodGet, target, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Invalid sort or direction parameter."}`, w.Body.String())
		})
	}
}

func TestPostControllerSearch(t *testing.T) {
	controller, _ := setupTestPostController(t, repositories.NewMemoryPostRepository(models.SeedPosts()...))
	router := setupRouter(controller)

	t.Run("no queries returns empty array", func(t *testing.T) {
		w := do(router, http.MethodGet, "/posts/search", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("title query", func(t *testing.T) {
		w := do(router, http.MethodGet, "/posts/search?title=first", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id":1,"title":"First post","content":"This is the first post."}]`, w.Body.String())
	})

	t.Run("content query", func(t *testing.T) {
		w := do(router, http.MethodGet, "/posts/search?content=SECOND", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		posts := decodePosts(t, w)
		require.Len(t, posts, 1)
		assert.Equal(t, 2, posts[0].ID)
	})
}

func TestPostControllerRepositoryFailure(t *testing.T) {
	controller, logs := setupTestPostController(t, brokenRepo{})
	router := setupRouter(controller)

	requests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodGet, "/posts", ""},
		{http.MethodGet, "/posts/search?title=x", ""},
		{http.MethodGet, "/posts/1", ""},
		{http.MethodPost, "/posts", `{"title":"a","content":"b"}`},
		{http.MethodPut, "/posts/1", `{"title":"a"}`},
		{http.MethodDelete, "/posts/1", ""},
	}

	for _, r := range requests {
		t.Run(r.method+" "+r.target, func(t *testing.T) {
			var body io.Reader
			if r.body != "" {
				body = strings.NewReader(r.body)
			}
			w := do(router, r.method, r.target, body)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
		})
	}

	assert.Contains(t, logs.String(), "read failed")
}
