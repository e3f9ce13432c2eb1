package repositories

import "masterblog/app/models"

// PostRepository persists the whole post collection as a single unit.
// Load returns the collection in storage order; Save replaces it entirely.
type PostRepository interface {
	Load() ([]models.Post, error)
	Save(posts []models.Post) error
}
