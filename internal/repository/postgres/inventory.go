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

type inventoryRepository struct {
	db *pgxpool.Pool
}

func NewInventoryRepository(db *pgxpool.Pool) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

// StartSession relies on the partial unique index
// inventory_sessions_one_active (status WHERE status = 'active') to guarantee
// at most one active session system-wide, so racing starts cannot both win.
func (r *inventoryRepository) StartSession(ctx context.Context, session *domain.InventorySession) error {
	query := `
		INSERT INTO inventory_sessions (id, name, description, status, started_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	session.ID = uuid.New()
	session.Status = domain.SessionActive
	session.StartedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.Name,
		session.Description,
		session.Status,
		session.StartedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSessionAlreadyActive
		}
		return err
	}

	return nil
}

func (r *inventoryRepository) GetSession(ctx context.Context, id uuid.UUID) (*domain.InventorySession, error) {
	query := `
		SELECT id, name, description, status, started_at, ended_at
		FROM inventory_sessions
		WHERE id = $1
	`

	session := &domain.InventorySession{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.Name,
		&session.Description,
		&session.Status,
		&session.StartedAt,
		&session.EndedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return session, nil
}

func (r *inventoryRepository) ListSessions(ctx context.Context) ([]*domain.InventorySession, error) {
	query := `
		SELECT id, name, description, status, started_at, ended_at
		FROM inventory_sessions
		ORDER BY started_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.InventorySession
	for rows.Next() {
		session := &domain.InventorySession{}
		err := rows.Scan(
			&session.ID,
			&session.Name,
			&session.Description,
			&session.Status,
			&session.StartedAt,
			&session.EndedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// CheckPlate records one physical observation. The session row is locked
// FOR SHARE so a concurrent EndSession cannot flip it to ended underneath the
// upsert, and the counter bump is an atomic in-database add so concurrent
// checks of the same plate never lose increments.
func (r *inventoryRepository) CheckPlate(ctx context.Context, sessionID uuid.UUID, plate string, at time.Time) (*domain.InventoryCheckRecord, error) {
	plate = domain.NormalizeLicensePlate(plate)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var status domain.SessionStatus
	err = tx.QueryRow(ctx, `SELECT status FROM inventory_sessions WHERE id = $1 FOR SHARE`, sessionID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotActive
		}
		return nil, err
	}
	if status != domain.SessionActive {
		return nil, domain.ErrSessionNotActive
	}

	record := &domain.InventoryCheckRecord{SessionID: sessionID}
	err = tx.QueryRow(ctx, `
		INSERT INTO inventory_check_records (session_id, license_plate, check_count, first_checked_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (session_id, license_plate)
		DO UPDATE SET check_count = inventory_check_records.check_count + 1
		RETURNING license_plate, check_count, first_checked_at
	`, sessionID, plate, at).Scan(&record.LicensePlate, &record.Count, &record.FirstCheckedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

// EndSession performs the terminal transition and computes the report inside
// the same transaction. The parked set and the checked set come from one
// repeatable-read snapshot, so a vehicle parked or retrieved while the report
// is being computed cannot skew the totals.
func (r *inventoryRepository) EndSession(ctx context.Context, sessionID uuid.UUID, at time.Time) (*domain.InventoryReport, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	session := &domain.InventorySession{}
	err = tx.QueryRow(ctx, `
		UPDATE inventory_sessions
		SET status = $2, ended_at = $3
		WHERE id = $1 AND status = $4
		RETURNING id, name, description, status, started_at, ended_at
	`, sessionID, domain.SessionEnded, at, domain.SessionActive).Scan(
		&session.ID,
		&session.Name,
		&session.Description,
		&session.Status,
		&session.StartedAt,
		&session.EndedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotActive
		}
		return nil, err
	}

	parkedPlates, err := collectStrings(tx.Query(ctx, `
		SELECT license_plate FROM vehicles WHERE status = $1
	`, domain.StatusParked))
	if err != nil {
		return nil, err
	}

	checkedPlates, err := collectStrings(tx.Query(ctx, `
		SELECT license_plate FROM inventory_check_records WHERE session_id = $1
	`, sessionID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return domain.BuildReport(session, at, parkedPlates, checkedPlates), nil
}

func (r *inventoryRepository) SessionRecords(ctx context.Context, sessionID uuid.UUID) ([]*domain.InventoryCheckRecord, error) {
	query := `
		SELECT session_id, license_plate, check_count, first_checked_at
		FROM inventory_check_records
		WHERE session_id = $1
		ORDER BY first_checked_at
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.InventoryCheckRecord
	for rows.Next() {
		record := &domain.InventoryCheckRecord{}
		err := rows.Scan(
			&record.SessionID,
			&record.LicensePlate,
			&record.Count,
			&record.FirstCheckedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func collectStrings(rows pgx.Rows, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, rows.Err()
}
