package services

import (
	"sort"
	"strings"
	"sync"

	"masterblog/app/models"
	"masterblog/app/repositories"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when no post has the requested id.
	ErrNotFound = errors.New("post not found")
	// ErrValidation is returned when a new post lacks a title or content.
	ErrValidation = errors.New("missing title or content")
	// ErrInvalidParameter is returned for an unsupported sort field or direction.
	ErrInvalidParameter = errors.New("invalid sort or direction parameter")
)

// Sort fields and directions accepted by ListPosts.
const (
	SortByTitle   = "title"
	SortByContent = "content"

	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// PostService owns the post collection. Reads reload the collection from the
// repository; writes load it, mutate the loaded copy and save it back. Writes
// are serialized so concurrent requests never drop each other's changes.
type PostService struct {
	postRepo repositories.PostRepository
	mutex    sync.RWMutex
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// ListPosts returns all posts, optionally sorted case-insensitively by title
// or content. An empty sortField keeps storage order.
func (s *PostService) ListPosts(sortField, direction string) ([]models.Post, error) {
	less, err := postOrdering(sortField, direction)
	if err != nil {
		return nil, err
	}

	posts, err := s.load()
	if err != nil {
		return nil, err
	}

	if less != nil {
		sort.SliceStable(posts, func(i, j int) bool {
			return less(posts[i], posts[j])
		})
	}
	return posts, nil
}

// GetPost returns the post with the given id.
func (s *PostService) GetPost(id int) (*models.Post, error) {
	posts, err := s.load()
	if err != nil {
		return nil, err
	}

	i := indexOf(posts, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return &posts[i], nil
}

// CreatePost validates and appends a new post, assigning it max(id)+1.
func (s *PostService) CreatePost(input models.NewPost) (*models.Post, error) {
	if err := input.Validate(); err != nil {
		return nil, errors.Wrap(ErrValidation, err.Error())
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	posts, err := s.postRepo.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load posts")
	}

	post := models.Post{
		ID:      models.NextID(posts),
		Title:   input.Title,
		Content: input.Content,
	}
	posts = append(posts, post)

	if err := s.postRepo.Save(posts); err != nil {
		return nil, errors.Wrap(err, "failed to save posts")
	}
	return &post, nil
}

// UpdatePost overwrites the fields set in patch. Fields left nil keep their
// value; supplied fields are written as-is, empty strings included.
func (s *PostService) UpdatePost(id int, patch models.PostPatch) (*models.Post, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	posts, err := s.postRepo.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load posts")
	}

	i := indexOf(posts, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	if patch.Empty() {
		post := posts[i]
		return &post, nil
	}

	posts[i].Apply(patch)
	if err := s.postRepo.Save(posts); err != nil {
		return nil, errors.Wrap(err, "failed to save posts")
	}

	post := posts[i]
	return &post, nil
}

// DeletePost removes the post with the given id.
func (s *PostService) DeletePost(id int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	posts, err := s.postRepo.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load posts")
	}

	i := indexOf(posts, id)
	if i < 0 {
		return ErrNotFound
	}
	posts = append(posts[:i], posts[i+1:]...)

	if err := s.postRepo.Save(posts); err != nil {
		return errors.Wrap(err, "failed to save posts")
	}
	return nil
}

// SearchPosts returns, in storage order, the posts whose title contains
// titleQuery or whose content contains contentQuery, ignoring case. With both
// queries empty nothing matches.
func (s *PostService) SearchPosts(titleQuery, contentQuery string) ([]models.Post, error) {
	results := []models.Post{}
	if titleQuery == "" && contentQuery == "" {
		return results, nil
	}

	posts, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, post := range posts {
		if post.Matches(titleQuery, contentQuery) {
			results = append(results, post)
		}
	}
	return results, nil
}

// load reads the current collection under the read lock.
func (s *PostService) load() ([]models.Post, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	posts, err := s.postRepo.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load posts")
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// postOrdering resolves the sort parameters into a comparison. A nil func
// means storage order.
func postOrdering(sortField, direction string) (func(a, b models.Post) bool, error) {
	if direction == "" {
		direction = DirectionAsc
	}
	if direction != DirectionAsc && direction != DirectionDesc {
		return nil, errors.Wrapf(ErrInvalidParameter, "direction %q", direction)
	}

	var key func(models.Post) string
	switch sortField {
	case "":
		return nil, nil
	case SortByTitle:
		key = func(p models.Post) string { return strings.ToLower(p.Title) }
	case SortByContent:
		key = func(p models.Post) string { return strings.ToLower(p.Content) }
	default:
		return nil, errors.Wrapf(ErrInvalidParameter, "sort %q", sortField)
	}

	if direction == DirectionDesc {
		return func(a, b models.Post) bool { return key(a) > key(b) }, nil
	}
	return func(a, b models.Post) bool { return key(a) < key(b) }, nil
}

func indexOf(posts []models.Post, id int) int {
	for i, post := range posts {
		if post.ID == id {
			return i
		}
	}
	return -1
}
