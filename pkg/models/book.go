package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Title      string    `bun:",nullzero" json:"title"`
	Author     string    `bun:",nullzero" json:"author"`
	ISBN       *string   `bun:"isbn" json:"isbn"`
	Available  bool      `json:"available"`
	BorrowerID *int      `json:"borrower_id"`
}

// SetBorrower points the book at the given borrower, or clears the reference
// when borrowerID is nil. Available is always derived from the reference so
// the two can never disagree.
func (b *Book) SetBorrower(borrowerID *int) {
	if borrowerID == nil {
		b.BorrowerID = nil
	} else {
		id := *borrowerID
		b.BorrowerID = &id
	}
	b.Available = b.BorrowerID == nil
}

// IsBorrowed reports whether the book currently references a borrower.
func (b *Book) IsBorrowed() bool {
	return b.BorrowerID != nil
}
