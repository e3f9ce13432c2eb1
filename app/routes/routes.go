package routes

import (
	_ "embed"
	"encoding/json"
	"log/slog"
	"net/http"

	"masterblog/app/controllers"
	"masterblog/app/middleware"

	"github.com/gorilla/mux"
)

// DocsPath serves the OpenAPI document describing the API.
const DocsPath = "/static/masterblog.json"

//go:embed static/masterblog.json
var apiDocument []byte

// Options tunes the router.
type Options struct {
	Logger      *slog.Logger
	CORSOrigins []string
}

// NewRouter wires the posts API under /api and wraps it with request id,
// logging, panic recovery and CORS.
func NewRouter(postController *controllers.PostController, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := mux.NewRouter()
	router.NotFoundHandler = jsonError(http.StatusNotFound, "Not found")
	router.MethodNotAllowedHandler = jsonError(http.StatusMethodNotAllowed, "Method not allowed")

	// API routes with JSON content type. Posts routes sit directly on the
	// root router so a method mismatch reaches MethodNotAllowedHandler.
	router.Use(middleware.ContentTypeJSON)

	// Posts API endpoints
	router.HandleFunc("/api/posts", postController.Index).Methods(http.MethodGet)
	router.HandleFunc("/api/posts", postController.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/posts/search", postController.Search).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{id:[0-9]+}", postController.Show).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{id:[0-9]+}", postController.Update).Methods(http.MethodPut)
	router.HandleFunc("/api/posts/{id:[0-9]+}", postController.Delete).Methods(http.MethodDelete)

	// API documentation
	router.HandleFunc(DocsPath, serveAPIDocument).Methods(http.MethodGet)
	router.HandleFunc("/api/docs", serveAPIDocument).Methods(http.MethodGet)

	var handler http.Handler = router
	handler = middleware.CORS(origins)(handler)
	handler = middleware.Recoverer(logger)(handler)
	handler = middleware.Logger(logger)(handler)
	handler = middleware.RequestID(handler)
	return handler
}

func serveAPIDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(apiDocument)
}

func jsonError(status int, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": message})
	})
}
