package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/repository"
)

type transactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	query := `
		SELECT id, license_plate, owner_cccd, action, timestamp
		FROM transactions
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *transactionRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE timestamp >= $1`, since).Scan(&count)
	return count, err
}

func (r *transactionRepository) DailyActivity(ctx context.Context, days int) ([]*domain.ActivityBucket, error) {
	query := `
		SELECT to_char(date_trunc('day', timestamp), 'YYYY-MM-DD') AS period,
		       COUNT(*) FILTER (WHERE action = $2) AS park_count,
		       COUNT(*) FILTER (WHERE action = $3) AS retrieve_count
		FROM transactions
		WHERE timestamp >= $1
		GROUP BY period
		ORDER BY period
	`

	since := time.Now().AddDate(0, 0, -days)
	return r.activity(ctx, query, since)
}

func (r *transactionRepository) MonthlyActivity(ctx context.Context, months int) ([]*domain.ActivityBucket, error) {
	query := `
		SELECT to_char(date_trunc('month', timestamp), 'YYYY-MM') AS period,
		       COUNT(*) FILTER (WHERE action = $2) AS park_count,
		       COUNT(*) FILTER (WHERE action = $3) AS retrieve_count
		FROM transactions
		WHERE timestamp >= $1
		GROUP BY period
		ORDER BY period
	`

	since := time.Now().AddDate(0, -months, 0)
	return r.activity(ctx, query, since)
}

func (r *transactionRepository) activity(ctx context.Context, query string, since time.Time) ([]*domain.ActivityBucket, error) {
	rows, err := r.db.Query(ctx, query, since, domain.ActionPark, domain.ActionRetrieve)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []*domain.ActivityBucket
	for rows.Next() {
		b := &domain.ActivityBucket{}
		if err := rows.Scan(&b.Period, &b.ParkCount, &b.RetrieveCount); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}

	return buckets, rows.Err()
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for rows.Next() {
		txn := &domain.Transaction{}
		err := rows.Scan(
			&txn.ID,
			&txn.LicensePlate,
			&txn.OwnerCCCD,
			&txn.Action,
			&txn.Timestamp,
		)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}
