package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
)

var ErrPartNotFound = errors.New("part not found")

// PartStorage covers the catalog listings table.
type PartStorage interface {
	ListParts(ctx context.Context, filter models.PartFilter) ([]*models.Part, error)
	CreatePart(ctx context.Context, part *models.Part) (*models.Part, error)
	CreateParts(ctx context.Context, parts []*models.Part) error
}

type partRepository struct {
	db *sql.DB
}

func NewPartRepository(db *sql.DB) PartStorage {
	return &partRepository{db: db}
}

const partColumns = `id, seller_email, name, part_number, price, stock, condition, make, model,
	year, description, category, brand, warranty, shipping, location, status, created_at`

// ListParts builds the catalog query from the provided predicates; filters
// set to "" or "all" are skipped, all present filters apply conjunctively.
func (r *partRepository) ListParts(ctx context.Context, filter models.PartFilter) ([]*models.Part, error) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}

	if filter.Category != "" && filter.Category != "all" {
		add("category = ?", filter.Category)
	}
	if filter.Condition != "" && filter.Condition != "all" {
		add("condition = ?", filter.Condition)
	}
	if filter.Brand != "" && filter.Brand != "all" {
		add("brand = ?", filter.Brand)
	}
	if filter.Make != "" && filter.Make != "all" {
		add("make ILIKE ?", "%"+filter.Make+"%")
	}
	if filter.MinPrice != nil {
		add("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("price <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		ph := "$" + strconv.Itoa(len(args))
		conds = append(conds, "(name ILIKE "+ph+" OR description ILIKE "+ph+")")
	}

	query := "SELECT " + partColumns + " FROM parts"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " ORDER BY created_at DESC LIMIT " + strconv.Itoa(limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query parts: %w", err)
	}
	defer rows.Close()

	var parts []*models.Part
	for rows.Next() {
		p := &models.Part{}
		if err := rows.Scan(&p.ID, &p.SellerEmail, &p.Name, &p.PartNumber, &p.Price, &p.Stock,
			&p.Condition, &p.Make, &p.Model, &p.Year, &p.Description, &p.Category, &p.Brand,
			&p.Warranty, &p.Shipping, &p.Location, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan part: %w", err)
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *partRepository) CreatePart(ctx context.Context, part *models.Part) (*models.Part, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO parts (id, seller_email, name, part_number, price, stock, condition, make,
			model, year, description, category, brand, warranty, shipping, location, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW())
		 RETURNING created_at`,
		part.ID, part.SellerEmail, part.Name, part.PartNumber, part.Price, part.Stock,
		part.Condition, part.Make, part.Model, part.Year, part.Description, part.Category,
		part.Brand, part.Warranty, part.Shipping, part.Location, part.Status,
	).Scan(&part.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create part: %w", err)
	}
	return part, nil
}

// CreateParts inserts a validated bulk-upload batch in one transaction.
func (r *partRepository) CreateParts(ctx context.Context, parts []*models.Part) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, part := range parts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO parts (id, seller_email, name, part_number, price, stock, condition, make,
				model, year, description, category, brand, warranty, shipping, location, status, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW())`,
			part.ID, part.SellerEmail, part.Name, part.PartNumber, part.Price, part.Stock,
			part.Condition, part.Make, part.Model, part.Year, part.Description, part.Category,
			part.Brand, part.Warranty, part.Shipping, part.Location, part.Status)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("failed to rollback bulk insert: %w", rbErr)
			}
			return fmt.Errorf("failed to insert part %q: %w", part.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk insert: %w", err)
	}
	return nil
}
