package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portsrepo "github.com/vaadbayit/vaad_backend/internal/core/ports/repositories"
)

type PgxBuildingRepository struct {
	BaseRepository
}

func newPgxBuildingRepository(pool *pgxpool.Pool, queryTimeout time.Duration) portsrepo.BuildingRepositoryFacade {
	return &PgxBuildingRepository{BaseRepository: newBaseRepository(pool, queryTimeout)}
}

var _ portsrepo.BuildingRepositoryFacade = (*PgxBuildingRepository)(nil)

const buildingColumns = `building_id, building_name, city, street, home_number, bank_name, bank_account, contact_email, created_at`

func scanBuilding(row pgx.Row) (*domain.Building, error) {
	var b domain.Building
	if err := row.Scan(
		&b.BuildingID, &b.Name, &b.City, &b.Street, &b.HomeNumber,
		&b.BankName, &b.BankAccount, &b.ContactEmail, &b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PgxBuildingRepository) CreateBuilding(ctx context.Context, building domain.Building) (*domain.Building, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO buildings (building_name, city, street, home_number, bank_name, bank_account, contact_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + buildingColumns
	created, err := scanBuilding(r.Pool.QueryRow(ctx, query,
		building.Name, building.City, building.Street, building.HomeNumber,
		building.BankName, building.BankAccount, building.ContactEmail,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create building: %w", err)
	}
	return created, nil
}

func (r *PgxBuildingRepository) UpdateBuilding(ctx context.Context, building domain.Building) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE buildings
		SET building_name = $2, city = $3, street = $4, home_number = $5,
		    bank_name = $6, bank_account = $7, contact_email = $8
		WHERE building_id = $1
	`
	tag, err := r.Pool.Exec(ctx, query,
		building.BuildingID, building.Name, building.City, building.Street, building.HomeNumber,
		building.BankName, building.BankAccount, building.ContactEmail,
	)
	if err != nil {
		return fmt.Errorf("failed to update building %d: %w", building.BuildingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBuildingRepository) DeleteBuilding(ctx context.Context, buildingID int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.Pool.Exec(ctx, `DELETE FROM buildings WHERE building_id = $1`, buildingID)
	if err != nil {
		return fmt.Errorf("failed to delete building %d: %w", buildingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBuildingRepository) FindBuildingByID(ctx context.Context, buildingID int64) (*domain.Building, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBuilding(r.Pool.QueryRow(ctx, `SELECT `+buildingColumns+` FROM buildings WHERE building_id = $1`, buildingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find building %d: %w", buildingID, err)
	}
	return b, nil
}

func (r *PgxBuildingRepository) ListBuildings(ctx context.Context) ([]domain.Building, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `SELECT `+buildingColumns+` FROM buildings ORDER BY building_name, building_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	defer rows.Close()

	buildings := []domain.Building{}
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan building: %w", err)
		}
		buildings = append(buildings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buildings: %w", err)
	}
	return buildings, nil
}

// DashboardCounts counts buildings, home apartments and current residents.
func (r *PgxBuildingRepository) DashboardCounts(ctx context.Context) (domain.DashboardCounts, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT
			(SELECT COUNT(*) FROM buildings),
			(SELECT COUNT(*) FROM apartments WHERE apartment_number <> ALL($1)),
			(SELECT COUNT(*) FROM residents WHERE is_active AND end_date IS NULL)
	`
	var counts domain.DashboardCounts
	if err := r.Pool.QueryRow(ctx, query, domain.PlaceholderApartmentNumbers).Scan(
		&counts.TotalBuildings, &counts.TotalApartments, &counts.ActiveResidents,
	); err != nil {
		return counts, fmt.Errorf("failed to count dashboard totals: %w", err)
	}
	return counts, nil
}

// Apartments and residents

const insertResidentQuery = `
	INSERT INTO residents (apartment_id, role, first_name, last_name, phone, email, start_date, end_date, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING resident_id
`

func residentArgs(res domain.Resident) []any {
	return []any{res.ApartmentID, string(res.Role), res.FirstName, res.LastName, res.Phone, res.Email, res.StartDate, res.EndDate, res.IsActive}
}

func (r *PgxBuildingRepository) SetupApartments(ctx context.Context, buildingID int64, setups []domain.ApartmentSetup) ([]domain.Apartment, error) {
	created := make([]domain.Apartment, 0, len(setups))
	err := r.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, s := range setups {
			apt := domain.Apartment{BuildingID: buildingID, Floor: s.Floor, ApartmentNumber: s.ApartmentNumber}
			err := tx.QueryRow(ctx,
				`INSERT INTO apartments (building_id, floor, apartment_number) VALUES ($1, $2, $3) RETURNING apartment_id`,
				buildingID, s.Floor, s.ApartmentNumber,
			).Scan(&apt.ApartmentID)
			if err != nil {
				return classify(fmt.Errorf("failed to create apartment %q: %w", s.ApartmentNumber, err), "apartment "+s.ApartmentNumber)
			}
			if s.Resident != nil {
				res := *s.Resident
				res.ApartmentID = apt.ApartmentID
				if err := tx.QueryRow(ctx, insertResidentQuery, residentArgs(res)...).Scan(&res.ResidentID); err != nil {
					return classify(fmt.Errorf("failed to create resident for apartment %q: %w", s.ApartmentNumber, err), "resident")
				}
			}
			created = append(created, apt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *PgxBuildingRepository) ListApartments(ctx context.Context, buildingID int64) ([]domain.Apartment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `
		SELECT apartment_id, building_id, floor, apartment_number
		FROM apartments
		WHERE building_id = $1
		ORDER BY floor, apartment_number
	`, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list apartments of building %d: %w", buildingID, err)
	}
	defer rows.Close()

	apartments := []domain.Apartment{}
	for rows.Next() {
		var a domain.Apartment
		if err := rows.Scan(&a.ApartmentID, &a.BuildingID, &a.Floor, &a.ApartmentNumber); err != nil {
			return nil, fmt.Errorf("failed to scan apartment: %w", err)
		}
		apartments = append(apartments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating apartments: %w", err)
	}
	return apartments, nil
}

func (r *PgxBuildingRepository) FindApartmentByID(ctx context.Context, apartmentID int64) (*domain.Apartment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var a domain.Apartment
	err := r.Pool.QueryRow(ctx,
		`SELECT apartment_id, building_id, floor, apartment_number FROM apartments WHERE apartment_id = $1`,
		apartmentID,
	).Scan(&a.ApartmentID, &a.BuildingID, &a.Floor, &a.ApartmentNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find apartment %d: %w", apartmentID, err)
	}
	return &a, nil
}

func (r *PgxBuildingRepository) CreateResident(ctx context.Context, resident domain.Resident) (*domain.Resident, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.Pool.QueryRow(ctx, insertResidentQuery, residentArgs(resident)...).Scan(&resident.ResidentID); err != nil {
		return nil, classify(fmt.Errorf("failed to create resident: %w", err), "resident")
	}
	return &resident, nil
}

const residentColumns = `resident_id, apartment_id, role, first_name, last_name, phone, email, start_date, end_date, is_active`

func scanResident(row pgx.Row) (*domain.Resident, error) {
	var res domain.Resident
	var role string
	if err := row.Scan(
		&res.ResidentID, &res.ApartmentID, &role, &res.FirstName, &res.LastName,
		&res.Phone, &res.Email, &res.StartDate, &res.EndDate, &res.IsActive,
	); err != nil {
		return nil, err
	}
	res.Role = domain.ResidentRole(role)
	return &res, nil
}

func (r *PgxBuildingRepository) FindResidentByID(ctx context.Context, residentID int64) (*domain.Resident, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := scanResident(r.Pool.QueryRow(ctx, `SELECT `+residentColumns+` FROM residents WHERE resident_id = $1`, residentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find resident %d: %w", residentID, err)
	}
	return res, nil
}

func (r *PgxBuildingRepository) FindActiveResident(ctx context.Context, apartmentID int64) (*domain.Resident, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + residentColumns + `
		FROM residents
		WHERE apartment_id = $1 AND is_active AND end_date IS NULL
		ORDER BY start_date DESC, resident_id DESC
		LIMIT 1`
	res, err := scanResident(r.Pool.QueryRow(ctx, query, apartmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active resident of apartment %d: %w", apartmentID, err)
	}
	return res, nil
}

func (r *PgxBuildingRepository) SetActiveResident(ctx context.Context, apartmentID, residentID int64) error {
	return r.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE residents SET is_active = FALSE WHERE apartment_id = $1 AND resident_id <> $2`,
			apartmentID, residentID,
		); err != nil {
			return fmt.Errorf("failed to deactivate residents of apartment %d: %w", apartmentID, err)
		}
		tag, err := tx.Exec(ctx,
			`UPDATE residents SET is_active = TRUE, end_date = NULL WHERE resident_id = $1 AND apartment_id = $2`,
			residentID, apartmentID,
		)
		if err != nil {
			return fmt.Errorf("failed to activate resident %d: %w", residentID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

func (r *PgxBuildingRepository) DeactivateResident(ctx context.Context, residentID int64, endDate time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.Pool.Exec(ctx,
		`UPDATE residents SET is_active = FALSE, end_date = $2 WHERE resident_id = $1`,
		residentID, endDate,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate resident %d: %w", residentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Charge settings

func (r *PgxBuildingRepository) ListChargeSettings(ctx context.Context, buildingID int64) ([]domain.ChargeSetting, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `
		SELECT s.apartment_id, s.building_id, s.monthly_fee, s.charge_type
		FROM apartment_charge_settings s
		JOIN apartments a ON a.apartment_id = s.apartment_id
		WHERE s.building_id = $1
		ORDER BY a.floor, a.apartment_number
	`, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list charge settings of building %d: %w", buildingID, err)
	}
	defer rows.Close()

	settings := []domain.ChargeSetting{}
	for rows.Next() {
		var s domain.ChargeSetting
		if err := rows.Scan(&s.ApartmentID, &s.BuildingID, &s.MonthlyFee, &s.ChargeType); err != nil {
			return nil, fmt.Errorf("failed to scan charge setting: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating charge settings: %w", err)
	}
	return settings, nil
}

func (r *PgxBuildingRepository) FindChargeSetting(ctx context.Context, apartmentID int64) (*domain.ChargeSetting, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var s domain.ChargeSetting
	err := r.Pool.QueryRow(ctx,
		`SELECT apartment_id, building_id, monthly_fee, charge_type FROM apartment_charge_settings WHERE apartment_id = $1`,
		apartmentID,
	).Scan(&s.ApartmentID, &s.BuildingID, &s.MonthlyFee, &s.ChargeType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find charge setting of apartment %d: %w", apartmentID, err)
	}
	return &s, nil
}

func (r *PgxBuildingRepository) UpsertChargeSetting(ctx context.Context, setting domain.ChargeSetting) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO apartment_charge_settings (apartment_id, building_id, monthly_fee, charge_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (apartment_id) DO UPDATE
		SET monthly_fee = EXCLUDED.monthly_fee, charge_type = EXCLUDED.charge_type, building_id = EXCLUDED.building_id
	`, setting.ApartmentID, setting.BuildingID, setting.MonthlyFee, setting.ChargeType)
	if err != nil {
		return classify(fmt.Errorf("failed to upsert charge setting of apartment %d: %w", setting.ApartmentID, err), "charge setting")
	}
	return nil
}

// UpsertBuildingFee leaves the association apartment without a fee.
func (r *PgxBuildingRepository) UpsertBuildingFee(ctx context.Context, buildingID int64, fee decimal.Decimal) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.Pool.Exec(ctx, `
		INSERT INTO apartment_charge_settings (apartment_id, building_id, monthly_fee, charge_type)
		SELECT apartment_id, building_id, $2, $3
		FROM apartments
		WHERE building_id = $1 AND apartment_number <> $4
		ON CONFLICT (apartment_id) DO UPDATE SET monthly_fee = EXCLUDED.monthly_fee
	`, buildingID, fee, domain.DefaultChargeType, domain.SentinelApartmentNumber)
	if err != nil {
		return 0, fmt.Errorf("failed to set monthly fee for building %d: %w", buildingID, err)
	}
	return int(tag.RowsAffected()), nil
}
