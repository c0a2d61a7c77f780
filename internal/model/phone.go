package model

import "time"

type Phone struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name" validate:"required,min=1,max=255"`
	Description *string   `db:"description" json:"description"`
	Price       *string   `db:"price" json:"price"`
	AuthorID    *int      `db:"author_id" json:"-"`
	Author      *User     `json:"author" validate:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
