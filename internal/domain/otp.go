package domain

import "time"

type OneTimeCode struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CodeHash  []byte    `db:"code_hash" json:"-"`
	Salt      []byte    `db:"salt" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Attempts  int       `db:"attempts" json:"attempts"`
	Used      bool      `db:"used" json:"used"`
}

func (c *OneTimeCode) ExpiredAt(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
