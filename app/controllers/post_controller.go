package controllers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"masterblog/app/middleware"
	"masterblog/app/models"
	"masterblog/app/services"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// Response messages returned by the posts API.
const (
	MsgMissingFields   = "Missing title or content"
	MsgInvalidSort     = "Invalid sort or direction parameter."
	MsgInvalidBody     = "Invalid request body"
	MsgInternal        = "Internal server error"
	msgPostNotFoundFmt = "Post with id %s not found."
	msgPostDeletedFmt  = "Post with id %d has been deleted successfully."
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
	logger      *slog.Logger
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, logger *slog.Logger) *PostController {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostController{
		postService: postService,
		logger:      logger,
	}
}

// Index lists posts, optionally sorted by ?sort=title|content&direction=asc|desc.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	posts, err := pc.postService.ListPosts(query.Get("sort"), query.Get("direction"))
	if errors.Is(err, services.ErrInvalidParameter) {
		pc.sendError(w, MsgInvalidSort, http.StatusBadRequest)
		return
	}
	if err != nil {
		pc.internalError(w, r, err)
		return
	}

	pc.sendJSON(w, http.StatusOK, posts)
}

// Search returns posts whose title or content contains the ?title= or
// ?content= query.
func (pc *PostController) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	posts, err := pc.postService.SearchPosts(query.Get("title"), query.Get("content"))
	if err != nil {
		pc.internalError(w, r, err)
		return
	}

	pc.sendJSON(w, http.StatusOK, posts)
}

// Show returns a single post.
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	rawID := mux.Vars(r)["id"]
	id, ok := parseID(rawID)
	if !ok {
		pc.sendNotFound(w, rawID)
		return
	}

	post, err := pc.postService.GetPost(id)
	if errors.Is(err, services.ErrNotFound) {
		pc.sendNotFound(w, rawID)
		return
	}
	if err != nil {
		pc.internalError(w, r, err)
		return
	}

	pc.sendJSON(w, http.StatusOK, post)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var input models.NewPost
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		pc.sendError(w, MsgMissingFields, http.StatusBadRequest)
		return
	}

	post, err := pc.postService.CreatePost(input)
	if errors.Is(err, services.ErrValidation) {
		pc.sendError(w, MsgMissingFields, http.StatusBadRequest)
		return
	}
	if err != nil {
		pc.internalError(w, r, err)
		return
	}

	pc.sendJSON(w, http.StatusCreated, post)
}

// Update applies a partial update to an existing post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	rawID := mux.Vars(r)["id"]
	id, ok := parseID(rawID)
	if !ok {
		pc.sendNotFound(w, rawID)
		return
	}

	var patch models.PostPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		pc.sendError(w, MsgInvalidBody, http.StatusBadRequest)
		return
	}

	post, err := pc.postService.UpdatePost(id, patch)
	if errors.Is(err, services.ErrNotFound) {
		pc.sendNotFound(w, rawID)
		return
	}
	if err != nil {
		pc.internalError(w, r, err)
		return
	}

	pc.sendJSON(w, http.StatusOK, post)
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	rawID := mux.Vars(r)["id"]
	id, ok := parseID(rawID)
	if !ok {
		pc.sendNotFound(w, rawID)
		return
	}

	err := pc.postService.DeletePost(id)
	if errors.Is(err, services.ErrNotFound) {
		pc.sendNotFound(w, rawID)
		return
	}
	if err != nil {
		pc.internalError(w, r, err)
		return
	}

	pc.sendMessage(w, fmt.Sprintf(msgPostDeletedFmt, id), http.StatusOK)
}

// Helper methods for consistent response handling

func parseID(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func (pc *PostController) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		pc.logger.Error("failed to encode response", "error", err)
	}
}

func (pc *PostController) sendError(w http.ResponseWriter, message string, status int) {
	pc.sendJSON(w, status, map[string]string{"error": message})
}

func (pc *PostController) sendMessage(w http.ResponseWriter, message string, status int) {
	pc.sendJSON(w, status, map[string]string{"message": message})
}

func (pc *PostController) sendNotFound(w http.ResponseWriter, rawID string) {
	pc.sendMessage(w, fmt.Sprintf(msgPostNotFoundFmt, rawID), http.StatusNotFound)
}

func (pc *PostController) internalError(w http.ResponseWriter, r *http.Request, err error) {
	pc.logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"error", err,
	)
	pc.sendError(w, MsgInternal, http.StatusInternalServerError)
}
