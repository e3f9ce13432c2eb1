package repositories

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"masterblog/app/models"

	"github.com/pkg/errors"
)

// FilePostRepository stores the collection as one pretty-printed JSON array.
// The whole file is read on Load and rewritten on Save.
type FilePostRepository struct {
	path string
}

// NewFilePostRepository creates a repository backed by the JSON file at path.
// The file does not need to exist yet.
func NewFilePostRepository(path string) *FilePostRepository {
	return &FilePostRepository{path: path}
}

// Load reads the file. A missing or empty file yields an empty collection.
func (r *FilePostRepository) Load() ([]models.Post, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return []models.Post{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", r.path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Post{}, nil
	}

	var posts []models.Post
	if err := unmarshalEntity(data, &posts); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", r.path)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// Save overwrites the file with posts. The document is written to a temporary
// file in the same directory and renamed into place.
func (r *FilePostRepository) Save(posts []models.Post) error {
	if posts == nil {
		posts = []models.Post{}
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}

	data, err := json.MarshalIndent(posts, "", "    ")
	if err != nil {
		return errors.Wrap(err, "failed to encode posts")
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to write %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to close %s", tmpPath)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to chmod %s", tmpPath)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to replace %s", r.path)
	}
	return nil
}
