package queries

import (
	"context"
	"time"

	"github.com/shishobooks/circulation/pkg/books"
	"github.com/shishobooks/circulation/pkg/borrowers"
	"github.com/shishobooks/circulation/pkg/metrics"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/uptrace/bun"
)

// Service serves the read-only views over the catalog and the registry.
type Service struct {
	books     *books.Service
	borrowers *borrowers.Service
	metrics   metrics.Collector
}

func NewService(db bun.IDB, collector metrics.Collector) *Service {
	if collector == nil {
		collector = metrics.NoopCollector{}
	}
	return &Service{
		books:     books.NewService(db, collector),
		borrowers: borrowers.NewService(db, collector),
		metrics:   collector,
	}
}

func (svc *Service) ListBooks(ctx context.Context) ([]*models.Book, error) {
	defer metrics.Since(ctx, svc.metrics, metrics.BookOperationDuration, time.Now(), map[string]string{"operation": "list"})
	return svc.books.ListBooks(ctx)
}

func (svc *Service) ListBorrowers(ctx context.Context) ([]*models.Borrower, error) {
	defer metrics.Since(ctx, svc.metrics, metrics.BorrowerOperationDuration, time.Now(), map[string]string{"operation": "list"})
	return svc.borrowers.ListBorrowers(ctx)
}

func (svc *Service) RetrieveBorrower(ctx context.Context, id int) (*models.Borrower, error) {
	defer metrics.Since(ctx, svc.metrics, metrics.BorrowerOperationDuration, time.Now(), map[string]string{"operation": "retrieve"})
	return svc.borrowers.RetrieveBorrower(ctx, id)
}

// ListBorrowedBooks returns what the borrower currently holds. Unknown
// borrowers are an error rather than an empty list.
func (svc *Service) ListBorrowedBooks(ctx context.Context, borrowerID int) ([]*models.Book, error) {
	defer metrics.Since(ctx, svc.metrics, metrics.BorrowerOperationDuration, time.Now(), map[string]string{"operation": "borrowed_books"})

	if _, err := svc.borrowers.RetrieveBorrower(ctx, borrowerID); err != nil {
		return nil, err
	}
	return svc.books.ListBooksByBorrower(ctx, borrowerID)
}
