package lending

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/circulation/pkg/books"
	"github.com/shishobooks/circulation/pkg/borrowers"
	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/metrics"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/uptrace/bun"
)

const (
	operationBorrow = "borrow"
	operationReturn = "return"

	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Engine applies the lending rules. It's the only thing allowed to change who
// holds a book.
type Engine struct {
	db        *bun.DB
	books     *books.Service
	borrowers *borrowers.Service
	metrics   metrics.Collector
}

func NewEngine(db *bun.DB, collector metrics.Collector) *Engine {
	if collector == nil {
		collector = metrics.NoopCollector{}
	}
	return &Engine{
		db:        db,
		books:     books.NewService(db, collector),
		borrowers: borrowers.NewService(db, collector),
		metrics:   collector,
	}
}

// BorrowBook lends an available book to an existing borrower. The checks run
// in a fixed order (book exists, book available, borrower exists) so the
// first failing one decides the error. A book that is already lent is
// rejected even when the same borrower asks for it again.
func (e *Engine) BorrowBook(ctx context.Context, bookID, borrowerID int) (*models.Book, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	var book *models.Book
	err := e.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		bookSvc := e.books.WithTx(tx)

		b, err := bookSvc.RetrieveBook(ctx, bookID)
		if err != nil {
			return err
		}
		if !b.Available {
			return errcodes.BookAlreadyBorrowed(bookID)
		}

		if _, err := e.borrowers.WithTx(tx).RetrieveBorrower(ctx, borrowerID); err != nil {
			return err
		}

		err = bookSvc.SetBorrower(ctx, b, &borrowerID)
		if errors.Is(err, books.ErrAvailabilityChanged) {
			return errcodes.BookAlreadyBorrowed(bookID)
		}
		if err != nil {
			return err
		}

		book = b
		return nil
	})

	e.record(ctx, operationBorrow, start, err)
	if err != nil {
		log.Warn("borrow rejected", logger.Data{"book_id": bookID, "borrower_id": borrowerID, "reason": err.Error()})
		return nil, errors.WithStack(err)
	}

	e.metrics.IncrementCounter(ctx, metrics.BooksBorrowedTotal, nil)
	log.Info("book borrowed", logger.Data{"book_id": bookID, "borrower_id": borrowerID})
	return book, nil
}

// ReturnBook makes a lent book available again. Any caller may return any
// lent book.
func (e *Engine) ReturnBook(ctx context.Context, bookID int) (*models.Book, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	var (
		book       *models.Book
		borrowerID int
	)
	err := e.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		bookSvc := e.books.WithTx(tx)

		b, err := bookSvc.RetrieveBook(ctx, bookID)
		if err != nil {
			return err
		}
		if !b.IsBorrowed() {
			return errcodes.BookNotBorrowed(bookID)
		}
		borrowerID = *b.BorrowerID

		err = bookSvc.SetBorrower(ctx, b, nil)
		if errors.Is(err, books.ErrAvailabilityChanged) {
			return errcodes.BookNotBorrowed(bookID)
		}
		if err != nil {
			return err
		}

		book = b
		return nil
	})

	e.record(ctx, operationReturn, start, err)
	if err != nil {
		log.Warn("return rejected", logger.Data{"book_id": bookID, "reason": err.Error()})
		return nil, errors.WithStack(err)
	}

	e.metrics.IncrementCounter(ctx, metrics.BooksReturnedTotal, nil)
	log.Info("book returned", logger.Data{"book_id": bookID, "borrower_id": borrowerID})
	return book, nil
}

func (e *Engine) record(ctx context.Context, operation string, start time.Time, err error) {
	e.metrics.IncrementCounter(ctx, metrics.LendingOutcomesTotal, map[string]string{
		"operation": operation,
		"outcome":   outcome(err),
	})
	metrics.Since(ctx, e.metrics, metrics.BookOperationDuration, start, map[string]string{"operation": operation})
}

// outcome labels a result by its error code so rejected requests can be told
// apart from failures.
func outcome(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	var e *errcodes.Error
	if errors.As(err, &e) {
		return e.Code
	}
	return outcomeError
}
