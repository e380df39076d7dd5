package models

import "time"

// Exchange is one input line and the response produced for it.
type Exchange struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Input     string    `json:"input"`
	Intent    string    `json:"intent"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// LocalUserID is the user id the terminal session records exchanges under.
const LocalUserID int64 = 0
