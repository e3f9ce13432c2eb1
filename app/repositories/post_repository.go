package repositories

import (
	"masterblog/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// BadgerPostRepository implements PostRepository using BadgerDB. Each post is
// stored under its own key; Save rewrites the whole prefix in one transaction.
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Load returns every post ordered by id.
func (r *BadgerPostRepository) Load() ([]models.Post, error) {
	posts := []models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(PostKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var post models.Post
			err := item.Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", item.Key())
			}
			posts = append(posts, post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Save replaces the stored posts with posts.
func (r *BadgerPostRepository) Save(posts []models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		keep := make(map[int]bool, len(posts))
		for _, post := range posts {
			data, err := marshalEntity(post)
			if err != nil {
				return err
			}
			if err := txn.Set(postKey(post.ID), data); err != nil {
				return errors.Wrapf(err, "failed to save post %d", post.ID)
			}
			keep[post.ID] = true
		}

		var stale [][]byte
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(PostKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			id, err := postIDFromKey(key)
			if err != nil || !keep[id] {
				stale = append(stale, key)
			}
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return errors.Wrapf(err, "failed to delete %s", key)
			}
		}
		return nil
	})
}
