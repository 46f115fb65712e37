package store

import "github.com/safepaws-ai/safepaws-backend/internal/docstore"

// Notification is one in-app alert for a user.
type Notification struct {
	ID        string `json:"id"`
	User      string `json:"user"` // recipient email
	Title     string `json:"title"`
	Body      string `json:"body"`
	Seen      bool   `json:"seen"`
	CreatedAt string `json:"created_at"`
}

// AppendNotification stores a new alert for a user.
func (s *Store) AppendNotification(userEmail, title, body string) (Notification, error) {
	n := Notification{
		ID:        s.newID("N"),
		User:      userEmail,
		Title:     title,
		Body:      body,
		CreatedAt: s.timestamp(),
	}
	list := docstore.Read(s.b, colNotifications, []Notification{})
	list = append(list, n)
	if err := docstore.Write(s.b, colNotifications, list); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// NotificationsFor returns a user's alerts, oldest first.
func (s *Store) NotificationsFor(userEmail string) []Notification {
	out := []Notification{}
	for _, n := range docstore.Read(s.b, colNotifications, []Notification{}) {
		if n.User == userEmail {
			out = append(out, n)
		}
	}
	return out
}

// MarkNotificationsSeen flips every unseen alert for the user.
func (s *Store) MarkNotificationsSeen(userEmail string) error {
	list := docstore.Read(s.b, colNotifications, []Notification{})
	changed := false
	for i := range list {
		if list[i].User == userEmail && !list[i].Seen {
			list[i].Seen = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return docstore.Write(s.b, colNotifications, list)
}
