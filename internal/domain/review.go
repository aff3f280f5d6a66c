package domain

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        int64     `db:"id" json:"id"`
	HotelID   int64     `db:"hotel_id" json:"hotel"`
	UserID    uuid.UUID `db:"user_id" json:"user"`
	Rating    int       `db:"rating" json:"rating"`
	Title     string    `db:"title" json:"title"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
