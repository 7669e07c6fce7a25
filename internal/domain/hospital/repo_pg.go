package hospital

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository returns a Repository backed by the hospital table.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const hospitalCols = `id, name, latitude, longitude, trauma_level, stroke_center_level,
	cardiac_cath_lab, pediatric_specialty, ed_diversion, available_ed_beds,
	available_icu_beds, er_wait_min, on_call_physicians, fallback_eta_min,
	specialists, specialist_patients`

func scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.Name, &h.Latitude, &h.Longitude, &h.TraumaLevel, &h.StrokeCenterLevel,
		&h.CardiacCathLab, &h.PediatricSpecialty, &h.EDDiversion, &h.AvailableEDBeds,
		&h.AvailableICUBeds, &h.ERWaitMin, &h.OnCallPhysicians, &h.FallbackETAMin,
		&h.Specialists, &h.SpecialistPatients)
	return &h, err
}

func (r *PGRepository) All(ctx context.Context) ([]*Hospital, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+hospitalCols+` FROM hospital ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (*Hospital, error) {
	return scanHospital(r.pool.QueryRow(ctx, `SELECT `+hospitalCols+` FROM hospital WHERE id = $1`, id))
}

func (r *PGRepository) List(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM hospital`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+hospitalCols+` FROM hospital ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, h)
	}
	return items, total, rows.Err()
}

// Upsert inserts or replaces one hospital row. Used by the dataset import
// command, not by the routing path.
func (r *PGRepository) Upsert(ctx context.Context, h *Hospital) error {
	if h.ID == "" {
		return fmt.Errorf("hospital id is required")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hospital (id, name, latitude, longitude, trauma_level, stroke_center_level,
			cardiac_cath_lab, pediatric_specialty, ed_diversion, available_ed_beds,
			available_icu_beds, er_wait_min, on_call_physicians, fallback_eta_min,
			specialists, specialist_patients)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name, latitude=EXCLUDED.latitude, longitude=EXCLUDED.longitude,
			trauma_level=EXCLUDED.trauma_level, stroke_center_level=EXCLUDED.stroke_center_level,
			cardiac_cath_lab=EXCLUDED.cardiac_cath_lab, pediatric_specialty=EXCLUDED.pediatric_specialty,
			ed_diversion=EXCLUDED.ed_diversion, available_ed_beds=EXCLUDED.available_ed_beds,
			available_icu_beds=EXCLUDED.available_icu_beds, er_wait_min=EXCLUDED.er_wait_min,
			on_call_physicians=EXCLUDED.on_call_physicians, fallback_eta_min=EXCLUDED.fallback_eta_min,
			specialists=EXCLUDED.specialists, specialist_patients=EXCLUDED.specialist_patients,
			updated_at=NOW()`,
		h.ID, h.Name, h.Latitude, h.Longitude, h.TraumaLevel, h.StrokeCenterLevel,
		h.CardiacCathLab, h.PediatricSpecialty, h.EDDiversion, h.AvailableEDBeds,
		h.AvailableICUBeds, h.ERWaitMin, h.OnCallPhysicians, h.FallbackETAMin,
		h.Specialists, h.SpecialistPatients)
	return err
}
