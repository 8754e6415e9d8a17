// Package store is the client-side cache of the signed-in user and their
// notes. Every action goes Idle → Pending → Committed or Failed, and the
// cache only changes once the server has confirmed the write.
package store

import "time"

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Note struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// State is a snapshot; Error == "" means no error.
type State struct {
	User          *User
	Notes         []Note
	IsLoading     bool
	IsInitialized bool
	Error         string
}

func (s State) clone() State {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Notes != nil {
		out.Notes = append([]Note(nil), s.Notes...)
	}
	return out
}

// ProfileUpdate carries only the fields to change; nil means untouched.
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}
