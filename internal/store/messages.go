package store

import (
	"github.com/safepaws-ai/safepaws-backend/internal/docstore"
)

// Read-receipt states.
const (
	ReceiptUnread = "unread"
	ReceiptRead   = "read"
)

// Conversation is a chat thread. 1:1 threads are deduplicated on their
// member pair; groups are created explicitly.
type Conversation struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	IsGroup   bool     `json:"is_group"`
	Members   []string `json:"members"` // user emails
	CreatedAt string   `json:"created_at"`
}

// Message is one chat entry with per-recipient read receipts.
type Message struct {
	ID       string            `json:"id"`
	ConvoID  string            `json:"convo_id"`
	Sender   string            `json:"sender"`
	Text     string            `json:"text"`
	Time     string            `json:"time"`
	Receipts map[string]string `json:"receipts"`
}

// ─── METHODS ──────────────────────────────────────────────────────────────────

// ListConversations returns every thread.
func (s *Store) ListConversations() []Conversation {
	return docstore.Read(s.b, colConversations, []Conversation{})
}

// ConversationsFor returns the threads a user belongs to.
func (s *Store) ConversationsFor(email string) []Conversation {
	out := []Conversation{}
	for _, c := range s.ListConversations() {
		for _, m := range c.Members {
			if m == email {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// findOrCreateDirect returns the existing 1:1 thread between two users, or
// creates one. Member order does not matter for the match.
func (s *Store) findOrCreateDirect(a, b string) (Conversation, error) {
	convos := s.ListConversations()
	for _, c := range convos {
		if c.IsGroup || len(c.Members) != 2 {
			continue
		}
		if (c.Members[0] == a && c.Members[1] == b) || (c.Members[0] == b && c.Members[1] == a) {
			return c, nil
		}
	}
	c := Conversation{
		ID:        s.newID("C"),
		Name:      a + " & " + b,
		IsGroup:   false,
		Members:   []string{a, b},
		CreatedAt: s.timestamp(),
	}
	convos = append(convos, c)
	if err := docstore.Write(s.b, colConversations, convos); err != nil {
		return Conversation{}, err
	}
	return c, nil
}

// SendMessage delivers an in-app message from one user to another, creating
// the 1:1 thread on first contact. The recipient's receipt starts unread.
func (s *Store) SendMessage(from, to, text string) (Message, error) {
	convo, err := s.findOrCreateDirect(from, to)
	if err != nil {
		return Message{}, err
	}

	m := Message{
		ID:       s.newID("M"),
		ConvoID:  convo.ID,
		Sender:   from,
		Text:     text,
		Time:     s.timestamp(),
		Receipts: map[string]string{to: ReceiptUnread},
	}
	msgs := s.allMessages()
	msgs = append(msgs, m)
	if err := docstore.Write(s.b, colMessages, msgs); err != nil {
		return Message{}, err
	}
	return m, nil
}

func (s *Store) allMessages() []Message {
	return docstore.Read(s.b, colMessages, []Message{})
}

// MessagesByConversation returns a thread's messages in send order.
func (s *Store) MessagesByConversation(convoID string) []Message {
	out := []Message{}
	for _, m := range s.allMessages() {
		if m.ConvoID == convoID {
			out = append(out, m)
		}
	}
	return out
}

// MarkRead flips every receipt for the user in the thread to read. A no-op
// rewrite is skipped when nothing changed.
func (s *Store) MarkRead(convoID, email string) error {
	msgs := s.allMessages()
	changed := false
	for i := range msgs {
		if msgs[i].ConvoID != convoID {
			continue
		}
		if msgs[i].Receipts == nil {
			msgs[i].Receipts = map[string]string{}
		}
		if msgs[i].Receipts[email] != ReceiptRead {
			msgs[i].Receipts[email] = ReceiptRead
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return docstore.Write(s.b, colMessages, msgs)
}

// UnreadCount returns how many messages across all threads are unread for
// the user. Drives the notification badge.
func (s *Store) UnreadCount(email string) int {
	n := 0
	for _, m := range s.allMessages() {
		if m.Receipts[email] == ReceiptUnread {
			n++
		}
	}
	return n
}
