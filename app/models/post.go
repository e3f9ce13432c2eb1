package models

import "strings"

// Validate checks that a stored post carries a usable identifier.
func (p *Post) Validate() error {
	return validate.Struct(p)
}

// ValidatePosts checks a whole collection before it replaces the stored one.
func ValidatePosts(posts []Post) error {
	return validate.Struct(postCollection{Posts: posts})
}

// Validate checks that both title and content are present and non-empty.
func (n *NewPost) Validate() error {
	return validate.Struct(n)
}

// Empty reports whether the patch changes nothing.
func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Content == nil
}

// Apply overwrites the fields set in the patch.
func (p *Post) Apply(patch PostPatch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
}

// Matches reports whether the post's title contains titleQuery or its content
// contains contentQuery, ignoring case. An empty query never matches.
func (p *Post) Matches(titleQuery, contentQuery string) bool {
	if titleQuery != "" && strings.Contains(strings.ToLower(p.Title), strings.ToLower(titleQuery)) {
		return true
	}
	if contentQuery != "" && strings.Contains(strings.ToLower(p.Content), strings.ToLower(contentQuery)) {
		return true
	}
	return false
}

// NextID returns max(id)+1 over posts, or 1 when posts is empty.
func NextID(posts []Post) int {
	maxID := 0
	for _, post := range posts {
		if post.ID > maxID {
			maxID = post.ID
		}
	}
	return maxID + 1
}

// SeedPosts returns the two sample posts the API ships with.
func SeedPosts() []Post {
	return []Post{
		{ID: 1, Title: "First post", Content: "This is the first post."},
		{ID: 2, Title: "Second post", Content: "This is the second post."},
	}
}
