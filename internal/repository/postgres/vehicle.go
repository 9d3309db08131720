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

type vehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

const vehicleColumns = `id, owner_cccd, license_plate, vehicle_type, brand, color, status, created_at, updated_at`

func (r *vehicleRepository) GetByLicensePlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE license_plate = $1`

	vehicle := &domain.Vehicle{}
	err := r.db.QueryRow(ctx, query, domain.NormalizeLicensePlate(plate)).Scan(
		&vehicle.ID,
		&vehicle.OwnerCCCD,
		&vehicle.LicensePlate,
		&vehicle.VehicleType,
		&vehicle.Brand,
		&vehicle.Color,
		&vehicle.Status,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	return vehicle, nil
}

func (r *vehicleRepository) GetByOwnerCCCD(ctx context.Context, cccd string) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE owner_cccd = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, cccd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVehicles(rows)
}

func (r *vehicleRepository) SearchBySuffix(ctx context.Context, suffix string) ([]*domain.Vehicle, error) {
	// Plates are stored canonically, so a plain suffix LIKE is exact.
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE license_plate LIKE '%' || $1 ORDER BY license_plate`

	rows, err := r.db.Query(ctx, query, suffix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVehicles(rows)
}

// TransitionStatus performs the status flip and the transaction append in one
// database transaction. The UPDATE is a compare-and-swap on the current
// status: of two racing calls only one matches the `from` status, the loser
// sees zero rows and nothing is written for it.
func (r *vehicleRepository) TransitionStatus(ctx context.Context, plate string, from, to domain.VehicleStatus, action domain.VehicleAction, at time.Time) (*domain.Transaction, error) {
	plate = domain.NormalizeLicensePlate(plate)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var ownerCCCD string
	err = tx.QueryRow(ctx, `
		UPDATE vehicles
		SET status = $3, updated_at = $4
		WHERE license_plate = $1 AND status = $2
		RETURNING owner_cccd
	`, plate, from, to, at).Scan(&ownerCCCD)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race or never existed: probe to tell the two apart.
			var exists bool
			if probeErr := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM vehicles WHERE license_plate = $1)`, plate).Scan(&exists); probeErr != nil {
				return nil, probeErr
			}
			if !exists {
				return nil, domain.ErrVehicleNotFound
			}
			return nil, domain.ErrInvalidStateTransition
		}
		return nil, err
	}

	txn := &domain.Transaction{
		ID:           uuid.New(),
		LicensePlate: plate,
		OwnerCCCD:    ownerCCCD,
		Action:       action,
		Timestamp:    at,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (id, license_plate, owner_cccd, action, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`, txn.ID, txn.LicensePlate, txn.OwnerCCCD, txn.Action, txn.Timestamp)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return txn, nil
}

// ReplaceForOwner brings the stored vehicle set in line with the given one.
// Plates that survive the edit keep their current status and history.
func (r *vehicleRepository) ReplaceForOwner(ctx context.Context, cccd string, vehicles []*domain.Vehicle) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	keep := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		v.LicensePlate = domain.NormalizeLicensePlate(v.LicensePlate)
		keep = append(keep, v.LicensePlate)
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM vehicles
		WHERE owner_cccd = $1 AND NOT (license_plate = ANY($2))
	`, cccd, keep)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, v := range vehicles {
		var currentOwner string
		err = tx.QueryRow(ctx, `SELECT owner_cccd FROM vehicles WHERE license_plate = $1 FOR UPDATE`, v.LicensePlate).Scan(&currentOwner)

		switch {
		case errors.Is(err, pgx.ErrNoRows):
			_, err = tx.Exec(ctx, `
				INSERT INTO vehicles (id, owner_cccd, license_plate, vehicle_type, brand, color, status, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			`, uuid.New(), cccd, v.LicensePlate, v.VehicleType, v.Brand, v.Color, v.Status, now)
			if err != nil {
				if isUniqueViolation(err) {
					return domain.ErrVehicleAlreadyExists
				}
				return err
			}
		case err != nil:
			return err
		case currentOwner != cccd:
			// A plate belongs to exactly one owner at a time.
			return domain.ErrVehicleAlreadyExists
		default:
			_, err = tx.Exec(ctx, `
				UPDATE vehicles
				SET vehicle_type = $2, brand = $3, color = $4, updated_at = $5
				WHERE license_plate = $1
			`, v.LicensePlate, v.VehicleType, v.Brand, v.Color, now)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *vehicleRepository) CountParked(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles WHERE status = $1`, domain.StatusParked).Scan(&count)
	return count, err
}

func (r *vehicleRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&count)
	return count, err
}

func (r *vehicleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVehicles(rows)
}

func scanVehicles(rows pgx.Rows) ([]*domain.Vehicle, error) {
	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle := &domain.Vehicle{}
		err := rows.Scan(
			&vehicle.ID,
			&vehicle.OwnerCCCD,
			&vehicle.LicensePlate,
			&vehicle.VehicleType,
			&vehicle.Brand,
			&vehicle.Color,
			&vehicle.Status,
			&vehicle.CreatedAt,
			&vehicle.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, rows.Err()
}
