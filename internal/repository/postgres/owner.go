package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/repository"
)

// uniqueViolation - PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type ownerRepository struct {
	db *pgxpool.Pool
}

func NewOwnerRepository(db *pgxpool.Pool) repository.OwnerRepository {
	return &ownerRepository{db: db}
}

// CreateWithVehicles inserts the owner and all their vehicles in one database
// transaction, so a plate conflict on any vehicle rolls the whole
// registration back.
func (r *ownerRepository) CreateWithVehicles(ctx context.Context, owner *domain.Owner, vehicles []*domain.Vehicle) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	owner.CreatedAt = time.Now()
	owner.UpdatedAt = owner.CreatedAt

	_, err = tx.Exec(ctx, `
		INSERT INTO owners (cccd, old_cccd, full_name, date_of_birth, gender, hometown, issue_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		owner.CCCD,
		owner.OldCCCD,
		owner.FullName,
		owner.DateOfBirth,
		owner.Gender,
		owner.Hometown,
		owner.IssueDate,
		owner.CreatedAt,
		owner.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOwnerAlreadyExists
		}
		return err
	}

	for _, v := range vehicles {
		v.ID = uuid.New()
		v.CreatedAt = owner.CreatedAt
		v.UpdatedAt = owner.CreatedAt
		v.LicensePlate = domain.NormalizeLicensePlate(v.LicensePlate)

		_, err = tx.Exec(ctx, `
			INSERT INTO vehicles (id, owner_cccd, license_plate, vehicle_type, brand, color, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			v.ID,
			v.OwnerCCCD,
			v.LicensePlate,
			v.VehicleType,
			v.Brand,
			v.Color,
			v.Status,
			v.CreatedAt,
			v.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrVehicleAlreadyExists
			}
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ownerRepository) GetByCCCD(ctx context.Context, cccd string) (*domain.Owner, error) {
	query := `
		SELECT cccd, old_cccd, full_name, date_of_birth, gender, hometown, issue_date, created_at, updated_at
		FROM owners
		WHERE cccd = $1
	`

	owner := &domain.Owner{}
	err := r.db.QueryRow(ctx, query, cccd).Scan(
		&owner.CCCD,
		&owner.OldCCCD,
		&owner.FullName,
		&owner.DateOfBirth,
		&owner.Gender,
		&owner.Hometown,
		&owner.IssueDate,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, err
	}

	return owner, nil
}

func (r *ownerRepository) Update(ctx context.Context, owner *domain.Owner) error {
	query := `
		UPDATE owners
		SET old_cccd = $2, full_name = $3, date_of_birth = $4, gender = $5, hometown = $6, issue_date = $7, updated_at = $8
		WHERE cccd = $1
	`

	owner.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		owner.CCCD,
		owner.OldCCCD,
		owner.FullName,
		owner.DateOfBirth,
		owner.Gender,
		owner.Hometown,
		owner.IssueDate,
		owner.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrOwnerNotFound
	}

	return nil
}

func (r *ownerRepository) Delete(ctx context.Context, cccd string) error {
	// Vehicles go with the owner via ON DELETE CASCADE.
	result, err := r.db.Exec(ctx, `DELETE FROM owners WHERE cccd = $1`, cccd)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrOwnerNotFound
	}

	return nil
}

func (r *ownerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Owner, error) {
	query := `
		SELECT cccd, old_cccd, full_name, date_of_birth, gender, hometown, issue_date, created_at, updated_at
		FROM owners
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOwners(rows)
}

func (r *ownerRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Owner, error) {
	sql := `
		SELECT cccd, old_cccd, full_name, date_of_birth, gender, hometown, issue_date, created_at, updated_at
		FROM owners
		WHERE cccd = $1 OR full_name ILIKE '%' || $1 || '%'
		ORDER BY full_name
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOwners(rows)
}

func (r *ownerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM owners`).Scan(&count)
	return count, err
}

func scanOwners(rows pgx.Rows) ([]*domain.Owner, error) {
	var owners []*domain.Owner
	for rows.Next() {
		owner := &domain.Owner{}
		err := rows.Scan(
			&owner.CCCD,
			&owner.OldCCCD,
			&owner.FullName,
			&owner.DateOfBirth,
			&owner.Gender,
			&owner.Hometown,
			&owner.IssueDate,
			&owner.CreatedAt,
			&owner.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}

	return owners, rows.Err()
}
