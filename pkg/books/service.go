package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/metrics"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/uptrace/bun"
)

// ErrAvailabilityChanged is returned by SetBorrower when the book's
// availability no longer matches what the caller read.
var ErrAvailabilityChanged = errors.New("book availability changed concurrently")

type AddBookOptions struct {
	Title  string
	Author string
	ISBN   *string
}

type Service struct {
	db      bun.IDB
	metrics metrics.Collector
}

func NewService(db bun.IDB, collector metrics.Collector) *Service {
	if collector == nil {
		collector = metrics.NoopCollector{}
	}
	return &Service{db, collector}
}

// WithTx returns a copy of the service that runs its queries in tx.
func (svc *Service) WithTx(tx bun.IDB) *Service {
	return &Service{tx, svc.metrics}
}

// AddBook catalogs a new book. New books are always available. A duplicate
// ISBN is rejected by the storage layer and surfaces as an unexpected error.
func (svc *Service) AddBook(ctx context.Context, opts AddBookOptions) (*models.Book, error) {
	defer metrics.Since(ctx, svc.metrics, metrics.BookOperationDuration, time.Now(), map[string]string{"operation": "add"})

	now := time.Now()
	book := &models.Book{
		CreatedAt: now,
		UpdatedAt: now,
		Title:     opts.Title,
		Author:    opts.Author,
		ISBN:      opts.ISBN,
	}
	book.SetBorrower(nil)

	_, err := svc.db.
		NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	svc.metrics.IncrementCounter(ctx, metrics.BooksAddedTotal, nil)
	return book, nil
}

func (svc *Service) RetrieveBook(ctx context.Context, id int) (*models.Book, error) {
	book := &models.Book{}

	err := svc.db.
		NewSelect().
		Model(book).
		Where("b.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.BookNotFound(id)
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context) ([]*models.Book, error) {
	books := []*models.Book{}

	err := svc.db.
		NewSelect().
		Model(&books).
		Order("b.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}

// ListBooksByBorrower returns the books currently lent to the borrower. It
// doesn't check that the borrower exists.
func (svc *Service) ListBooksByBorrower(ctx context.Context, borrowerID int) ([]*models.Book, error) {
	books := []*models.Book{}

	err := svc.db.
		NewSelect().
		Model(&books).
		Where("b.borrower_id = ?", borrowerID).
		Order("b.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}

// SetBorrower lends the book to borrowerID, or marks it returned when
// borrowerID is nil. It does no business validation. The update only applies
// if the stored availability still matches book.Available as the caller read
// it; otherwise ErrAvailabilityChanged is returned and book is left untouched.
func (svc *Service) SetBorrower(ctx context.Context, book *models.Book, borrowerID *int) error {
	observed := book.Available

	updated := *book
	updated.SetBorrower(borrowerID)
	updated.UpdatedAt = time.Now()

	res, err := svc.db.
		NewUpdate().
		Model(&updated).
		Column("borrower_id", "available", "updated_at").
		WherePK().
		Where("b.available = ?", observed).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return ErrAvailabilityChanged
	}

	*book = updated
	return nil
}
