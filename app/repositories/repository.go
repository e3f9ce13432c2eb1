package repositories

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// OpenBadger opens the Badger database at path. An empty path opens an
// in-memory database.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open badger at %q", path)
	}
	return db, nil
}
