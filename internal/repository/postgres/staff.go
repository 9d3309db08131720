package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/repository"
)

type staffRepository struct {
	db *pgxpool.Pool
}

func NewStaffRepository(db *pgxpool.Pool) repository.StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	query := `
		INSERT INTO staff (id, username, password_hash, full_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	staff.ID = uuid.New()
	staff.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		staff.ID,
		staff.Username,
		staff.PasswordHash,
		staff.FullName,
		staff.Role,
		staff.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrStaffAlreadyExists
		}
		return err
	}

	return nil
}

func (r *staffRepository) GetByUsername(ctx context.Context, username string) (*domain.Staff, error) {
	query := `
		SELECT id, username, password_hash, full_name, role, created_at, last_login_at
		FROM staff
		WHERE username = $1
	`

	staff := &domain.Staff{}
	err := r.db.QueryRow(ctx, query, username).Scan(
		&staff.ID,
		&staff.Username,
		&staff.PasswordHash,
		&staff.FullName,
		&staff.Role,
		&staff.CreatedAt,
		&staff.LastLoginAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStaffNotFound
		}
		return nil, err
	}

	return staff, nil
}

func (r *staffRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE staff SET last_login_at = $2 WHERE id = $1`, id, time.Now())
	return err
}
