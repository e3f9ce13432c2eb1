package models

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Post represents a blog post.
type Post struct {
	ID      int    `json:"id" validate:"gt=0"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// postCollection is a stored collection as a whole: ids unique, each post valid.
type postCollection struct {
	Posts []Post `validate:"unique=ID,dive"`
}

// NewPost is the payload accepted when creating a post.
type NewPost struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// PostPatch is a partial update. Nil fields keep their stored value.
type PostPatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}
