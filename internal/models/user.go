package models

import (
	"time"
)

type User struct {
	ID        int
	Username  string
	CreatedAt time.Time `db:"created_at"`
}

// UserView is the wire representation of a user. The credential hash never
// leaves the db package.
type UserView struct {
	ID       int       `json:"id"`
	Username string    `json:"username"`
	Joined   time.Time `json:"joined"`
}

func (u User) View() UserView {
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		Joined:   u.CreatedAt,
	}
}
