package domain

import "encoding/json"

// UserSession is the single signed-in user. Addresses and Orders are
// reserved and kept as raw JSON so whatever is stored survives a round trip.
type UserSession struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	IsSignedIn bool              `json:"isSignedIn"`
	Addresses  []json.RawMessage `json:"addresses"`
	Orders     []json.RawMessage `json:"orders"`
}

func NewUserSession(id int64, name, email string) UserSession {
	return UserSession{
		ID:         id,
		Name:       name,
		Email:      email,
		IsSignedIn: true,
		Addresses:  []json.RawMessage{},
		Orders:     []json.RawMessage{},
	}
}
