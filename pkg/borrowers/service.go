package borrowers

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/circulation/pkg/database"
	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/metrics"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/uptrace/bun"
)

type RegisterBorrowerOptions struct {
	Name  string
	Email string
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

// RegisterBorrower creates a borrower. Emails are unique and compared exactly,
// so addresses that differ only in case belong to different borrowers.
func (svc *Service) RegisterBorrower(ctx context.Context, opts RegisterBorrowerOptions) (*models.Borrower, error) {
	defer metrics.Since(ctx, svc.metrics, metrics.BorrowerOperationDuration, time.Now(), map[string]string{"operation": "register"})

	exists, err := svc.db.
		NewSelect().
		Model((*models.Borrower)(nil)).
		Where("br.email = ?", opts.Email).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errcodes.DuplicateEmail(opts.Email)
	}

	now := time.Now()
	borrower := &models.Borrower{
		CreatedAt: now,
		UpdatedAt: now,
		Name:      opts.Name,
		Email:     opts.Email,
	}

	_, err = svc.db.
		NewInsert().
		Model(borrower).
		Returning("*").
		Exec(ctx)
	if err != nil {
		// Another registration with the same email got in after our check.
		if database.IsUniqueViolation(err) {
			return nil, errcodes.DuplicateEmail(opts.Email)
		}
		return nil, errors.WithStack(err)
	}

	svc.metrics.IncrementCounter(ctx, metrics.BorrowersCreatedTotal, nil)
	return borrower, nil
}

func (svc *Service) RetrieveBorrower(ctx context.Context, id int) (*models.Borrower, error) {
	borrower := &models.Borrower{}

	err := svc.db.
		NewSelect().
		Model(borrower).
		Where("br.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.BorrowerNotFound(id)
		}
		return nil, errors.WithStack(err)
	}

	return borrower, nil
}

func (svc *Service) ListBorrowers(ctx context.Context) ([]*models.Borrower, error) {
	borrowers := []*models.Borrower{}

	err := svc.db.
		NewSelect().
		Model(&borrowers).
		Order("br.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return borrowers, nil
}

func (svc *Service) CountBorrowers(ctx context.Context) (int, error) {
	count, err := svc.db.
		NewSelect().
		Model((*models.Borrower)(nil)).
		Count(ctx)
	return count, errors.WithStack(err)
}
