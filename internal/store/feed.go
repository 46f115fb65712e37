package store

import "github.com/safepaws-ai/safepaws-backend/internal/docstore"

// Comment is one reply on a community post.
type Comment struct {
	Author string `json:"author"`
	Text   string `json:"text"`
	Time   string `json:"time"`
}

// Post is one community feed entry. Likes holds the emails of users who
// liked the post, so a user can like at most once.
type Post struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Photo     string    `json:"photo,omitempty"` // base64, as uploaded
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt string    `json:"created_at"`
}

// ─── METHODS ──────────────────────────────────────────────────────────────────

// CreatePost publishes a new feed entry.
func (s *Store) CreatePost(author, text, photo string) (Post, error) {
	p := Post{
		ID:        s.newID("P"),
		Author:    author,
		Text:      text,
		Photo:     photo,
		Likes:     []string{},
		Comments:  []Comment{},
		CreatedAt: s.timestamp(),
	}
	list := s.ListPosts()
	list = append(list, p)
	if err := docstore.Write(s.b, colPosts, list); err != nil {
		return Post{}, err
	}
	return p, nil
}

// ListPosts returns the feed, oldest first; callers reverse for display.
func (s *Store) ListPosts() []Post {
	return docstore.Read(s.b, colPosts, []Post{})
}

// LikePost toggles a user's like on a post.
func (s *Store) LikePost(id, userEmail string) (Post, error) {
	list := s.ListPosts()
	for i := range list {
		if list[i].ID != id {
			continue
		}
		liked := false
		for j, email := range list[i].Likes {
			if email == userEmail {
				list[i].Likes = append(list[i].Likes[:j], list[i].Likes[j+1:]...)
				liked = true
				break
			}
		}
		if !liked {
			list[i].Likes = append(list[i].Likes, userEmail)
		}
		if err := docstore.Write(s.b, colPosts, list); err != nil {
			return Post{}, err
		}
		return list[i], nil
	}
	return Post{}, ErrNotFound
}

// AddComment appends a reply to a post.
func (s *Store) AddComment(id, author, text string) (Post, error) {
	list := s.ListPosts()
	for i := range list {
		if list[i].ID != id {
			continue
		}
		list[i].Comments = append(list[i].Comments, Comment{
			Author: author,
			Text:   text,
			Time:   s.timestamp(),
		})
		if err := docstore.Write(s.b, colPosts, list); err != nil {
			return Post{}, err
		}
		return list[i], nil
	}
	return Post{}, ErrNotFound
}
