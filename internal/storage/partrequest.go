package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
)

var ErrPartRequestNotFound = errors.New("part request not found")

// PartRequestStorage covers the buyer request board.
type PartRequestStorage interface {
	CreatePartRequest(ctx context.Context, req *models.PartRequest) error
	GetPartRequestByID(ctx context.Context, id string) (*models.PartRequest, error)
	// ListPartRequests returns all requests matching the filter, newest first.
	ListPartRequests(ctx context.Context, filter models.PartRequestFilter) ([]*models.PartRequest, error)
	UpdatePartRequest(ctx context.Context, req *models.PartRequest) error
	DeletePartRequest(ctx context.Context, id string) error
}

type partRequestRepository struct {
	db *sql.DB
}

func NewPartRequestRepository(db *sql.DB) PartRequestStorage {
	return &partRequestRepository{db: db}
}

const partRequestColumns = `id, part_name, part_number, vehicle_make, vehicle_model, vehicle_year,
	vehicle_trim, oem_number, condition, description, budget, urgency, buyer_name, buyer_email,
	buyer_phone, location, preferred_contact_method, status, responses_count, expires_at,
	deadline, created_at, updated_at`

func scanPartRequest(row interface{ Scan(...any) error }) (*models.PartRequest, error) {
	pr := &models.PartRequest{}
	var budget sql.NullFloat64
	var deadline sql.NullTime
	err := row.Scan(&pr.ID, &pr.PartName, &pr.PartNumber, &pr.VehicleMake, &pr.VehicleModel,
		&pr.VehicleYear, &pr.VehicleTrim, &pr.OEMNumber, &pr.Condition, &pr.Description,
		&budget, &pr.Urgency, &pr.BuyerName, &pr.BuyerEmail, &pr.BuyerPhone, &pr.Location,
		&pr.PreferredContactMethod, &pr.Status, &pr.ResponsesCount, &pr.ExpiresAt,
		&deadline, &pr.CreatedAt, &pr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if budget.Valid {
		pr.Budget = &budget.Float64
	}
	if deadline.Valid {
		pr.Deadline = &deadline.Time
	}
	return pr, nil
}

func (r *partRequestRepository) CreatePartRequest(ctx context.Context, req *models.PartRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO part_requests (id, part_name, part_number, vehicle_make, vehicle_model,
			vehicle_year, vehicle_trim, oem_number, condition, description, budget, urgency,
			buyer_name, buyer_email, buyer_phone, location, preferred_contact_method, status,
			responses_count, expires_at, deadline, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23)`,
		req.ID, req.PartName, req.PartNumber, req.VehicleMake, req.VehicleModel, req.VehicleYear,
		req.VehicleTrim, req.OEMNumber, req.Condition, req.Description, req.Budget, req.Urgency,
		req.BuyerName, req.BuyerEmail, req.BuyerPhone, req.Location, req.PreferredContactMethod,
		req.Status, req.ResponsesCount, req.ExpiresAt, req.Deadline, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create part request: %w", err)
	}
	return nil
}

func (r *partRequestRepository) GetPartRequestByID(ctx context.Context, id string) (*models.PartRequest, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+partRequestColumns+" FROM part_requests WHERE id = $1", id)
	req, err := scanPartRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPartRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *partRequestRepository) ListPartRequests(ctx context.Context, filter models.PartRequestFilter) ([]*models.PartRequest, error) {
	query := "SELECT " + partRequestColumns + " FROM part_requests WHERE 1=1"
	var args []any

	if filter.Status != "" && filter.Status != "all" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.VehicleMake != "" && filter.VehicleMake != "all" {
		args = append(args, "%"+filter.VehicleMake+"%")
		query += fmt.Sprintf(" AND vehicle_make ILIKE $%d", len(args))
	}
	if filter.VehicleModel != "" && filter.VehicleModel != "all" {
		args = append(args, "%"+filter.VehicleModel+"%")
		query += fmt.Sprintf(" AND vehicle_model ILIKE $%d", len(args))
	}
	if filter.Urgency != "" && filter.Urgency != "all" {
		args = append(args, filter.Urgency)
		query += fmt.Sprintf(" AND urgency = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query part requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.PartRequest
	for rows.Next() {
		req, err := scanPartRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan part request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *partRequestRepository) UpdatePartRequest(ctx context.Context, req *models.PartRequest) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE part_requests SET status = $1, responses_count = $2, updated_at = $3 WHERE id = $4`,
		req.Status, req.ResponsesCount, req.UpdatedAt, req.ID)
	if err != nil {
		return fmt.Errorf("failed to update part request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPartRequestNotFound
	}
	return nil
}

func (r *partRequestRepository) DeletePartRequest(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM part_requests WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete part request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPartRequestNotFound
	}
	return nil
}
