package repositories

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"masterblog/app/models"

	"github.com/pkg/errors"
)

const (
	// PostKeyPrefix prefixes every post key in Badger.
	PostKeyPrefix = "post:"

	// postKeyWidth zero-pads ids so lexical key order equals numeric order.
	postKeyWidth = 10
)

// postKey builds the Badger key for a post id.
func postKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%0*d", PostKeyPrefix, postKeyWidth, id))
}

// postIDFromKey parses the id back out of a post key.
func postIDFromKey(key []byte) (int, error) {
	raw := strings.TrimPrefix(string(key), PostKeyPrefix)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed post key %q", key)
	}
	return id, nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal entity")
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return errors.Wrap(err, "failed to unmarshal entity")
	}
	return nil
}

// clonePosts copies a collection so callers never share a backing array.
func clonePosts(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)
	return out
}
