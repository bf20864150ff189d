package entity

import "time"

type User struct {
	Id        uint
	Email     string
	Verified  bool
	CreatedAt time.Time
}

type VerificationCode struct {
	Id        uint
	Email     string
	CodeHash  string
	ExpiresAt time.Time
	Used      bool
}

// Expired reports whether the code can no longer be redeemed at t.
func (c *VerificationCode) Expired(t time.Time) bool {
	return !t.Before(c.ExpiresAt)
}

type Session struct {
	Id        uint
	UserId    uint
	TokenHash string
	CreatedAt time.Time
}
