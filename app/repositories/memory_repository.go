package repositories

import (
	"sync"

	"masterblog/app/models"
)

// MemoryPostRepository keeps the collection in process memory.
type MemoryPostRepository struct {
	posts []models.Post
	mutex sync.RWMutex
}

// NewMemoryPostRepository creates a repository holding a copy of seed.
func NewMemoryPostRepository(seed ...models.Post) *MemoryPostRepository {
	return &MemoryPostRepository{posts: clonePosts(seed)}
}

// Load returns a copy of the stored collection.
func (m *MemoryPostRepository) Load() ([]models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return clonePosts(m.posts), nil
}

// Save replaces the stored collection with a copy of posts.
func (m *MemoryPostRepository) Save(posts []models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.posts = clonePosts(posts)
	return nil
}
