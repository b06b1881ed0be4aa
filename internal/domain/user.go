package domain

import "time"

// AccountStatus representa el estado de la cuenta.
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
)

type User struct {
	ID           int64         `json:"id"`
	Email        string        `json:"email"`
	FullName     string        `json:"full_name"`
	PasswordHash string        `json:"-"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Active indica si la cuenta puede autenticarse.
func (u User) Active() bool {
	return u.Status == StatusActive
}
