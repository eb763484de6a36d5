package models

import "time"

type User struct {
	ID        int       `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Note struct {
	ID        int       `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	UserID    int       `db:"user_id" json:"userId"`
	Deleted   bool      `db:"deleted" json:"deleted"`
	Archived  bool      `db:"archived" json:"archived"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NoteContent is the projection returned by single-note lookups:
// title and content only, id and flags withheld.
type NoteContent struct {
	Title   string `db:"title" json:"title"`
	Content string `db:"content" json:"content"`
}

// Pagination is derived on every list query, never stored.
type Pagination struct {
	TotalNotes  int `json:"totalNotes"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
}
