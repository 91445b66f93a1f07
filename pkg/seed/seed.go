package seed

import (
	"context"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/shishobooks/circulation/pkg/books"
	"github.com/shishobooks/circulation/pkg/borrowers"
	"github.com/shishobooks/circulation/pkg/lending"
	"github.com/shishobooks/circulation/pkg/metrics"
	"github.com/uptrace/bun"
)

type sampleBook struct {
	title  string
	author string
	isbn   string
	// lentTo is the email of the sample borrower holding the book, if any.
	lentTo string
}

var sampleBorrowers = []borrowers.RegisterBorrowerOptions{
	{Name: "John Doe", Email: "john.doe@email.com"},
	{Name: "Jane Smith", Email: "jane.smith@email.com"},
}

var sampleBooks = []sampleBook{
	{title: "The Great Gatsby", author: "F. Scott Fitzgerald", isbn: "9780743273565"},
	{title: "To Kill a Mockingbird", author: "Harper Lee", isbn: "9780061120084"},
	{title: "1984", author: "George Orwell", isbn: "9780451524935", lentTo: "john.doe@email.com"},
	{title: "Pride and Prejudice", author: "Jane Austen", isbn: "9780141439518"},
	{title: "The Catcher in the Rye", author: "J.D. Salinger", isbn: "9780316769174", lentTo: "jane.smith@email.com"},
}

// Result summarizes what Load wrote.
type Result struct {
	Skipped   bool
	Borrowers int
	Books     int
	Loans     int
}

// Load fills an empty database with a small sample library. Nothing is written
// when any borrower already exists. Loans go through the lending engine so
// the sample data obeys the same rules as real requests.
func Load(ctx context.Context, db *bun.DB, collector metrics.Collector) (*Result, error) {
	log := logger.FromContext(ctx)

	borrowerSvc := borrowers.NewService(db, collector)
	bookSvc := books.NewService(db, collector)
	engine := lending.NewEngine(db, collector)

	count, err := borrowerSvc.CountBorrowers(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		log.Info("sample data skipped, borrowers already exist", logger.Data{"borrowers": count})
		return &Result{Skipped: true}, nil
	}

	result := &Result{}
	ids := make(map[string]int, len(sampleBorrowers))
	for _, opts := range sampleBorrowers {
		borrower, err := borrowerSvc.RegisterBorrower(ctx, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to register sample borrower %s", opts.Email)
		}
		ids[borrower.Email] = borrower.ID
		result.Borrowers++
	}

	for _, sb := range sampleBooks {
		book, err := bookSvc.AddBook(ctx, books.AddBookOptions{
			Title:  sb.title,
			Author: sb.author,
			ISBN:   pointerutil.String(sb.isbn),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to add sample book %q", sb.title)
		}
		result.Books++

		if sb.lentTo == "" {
			continue
		}
		if _, err := engine.BorrowBook(ctx, book.ID, ids[sb.lentTo]); err != nil {
			return nil, errors.Wrapf(err, "failed to lend sample book %q", sb.title)
		}
		result.Loans++
	}

	log.Info("sample data loaded", logger.Data{
		"borrowers": result.Borrowers,
		"books":     result.Books,
		"loans":     result.Loans,
	})
	return result, nil
}
