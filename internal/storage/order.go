package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/partsfinda/partsfinda-api/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage covers checkout orders. Customer info and line items are
// stored as JSONB documents alongside the derived money columns.
type OrderStorage interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	// ListOrders returns all orders matching the filter, newest first.
	// Pagination and stats happen in the service over the full filtered set.
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

const orderColumns = `id, customer_info, items, subtotal, tax, shipping, total, status,
	payment_status, payment_intent_id, tracking_number, notes, estimated_delivery,
	created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	o := &models.Order{}
	var customerInfo, items []byte
	var estimatedDelivery sql.NullTime
	err := row.Scan(&o.ID, &customerInfo, &items, &o.Subtotal, &o.Tax, &o.Shipping, &o.Total,
		&o.Status, &o.PaymentStatus, &o.PaymentIntentID, &o.TrackingNumber, &o.Notes,
		&estimatedDelivery, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(customerInfo, &o.CustomerInfo); err != nil {
		return nil, fmt.Errorf("failed to decode customer info: %w", err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	if estimatedDelivery.Valid {
		o.EstimatedDelivery = &estimatedDelivery.Time
	}
	return o, nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	customerInfo, err := json.Marshal(order.CustomerInfo)
	if err != nil {
		return fmt.Errorf("failed to encode customer info: %w", err)
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO orders (id, customer_info, items, subtotal, tax, shipping, total, status,
			payment_status, payment_intent_id, tracking_number, notes, estimated_delivery,
			created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		order.ID, customerInfo, items, order.Subtotal, order.Tax, order.Shipping, order.Total,
		order.Status, order.PaymentStatus, order.PaymentIntentID, order.TrackingNumber,
		order.Notes, order.EstimatedDelivery, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE 1=1"
	var args []any

	if filter.CustomerEmail != "" {
		args = append(args, filter.CustomerEmail)
		query += fmt.Sprintf(" AND LOWER(customer_info->>'email') = LOWER($%d)", len(args))
	}
	if filter.SellerID != "" {
		args = append(args, filter.SellerID)
		query += fmt.Sprintf(` AND items @> jsonb_build_array(jsonb_build_object('seller_id', $%d::text))`, len(args))
	}
	if filter.Status != "" && filter.Status != "all" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateOrder(ctx context.Context, order *models.Order) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, payment_status = $2, tracking_number = $3, notes = $4,
			estimated_delivery = $5, updated_at = $6
		 WHERE id = $7`,
		order.Status, order.PaymentStatus, order.TrackingNumber, order.Notes,
		order.EstimatedDelivery, order.UpdatedAt, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
