package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/partsfinda/partsfinda-api/internal/domain/models"
	"github.com/partsfinda/partsfinda-api/internal/storage"
	"github.com/stretchr/testify/assert"
)

const userColumnsQuery = "SELECT id, email, name, phone, pass_hash, role, created_at FROM users WHERE email = \\$1"

func TestGetUserByEmail_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)
	ctx := context.Background()
	createdAt := time.Now()

	rows := sqlmock.NewRows([]string{"id", "email", "name", "phone", "pass_hash", "role", "created_at"}).
		AddRow("user_1", "buyer@example.com", "Andre", "876-555-0101", []byte("hashed-password"), "buyer", createdAt)

	mock.ExpectQuery(userColumnsQuery).
		WithArgs("buyer@example.com").WillReturnRows(rows)

	user, err := repo.GetUserByEmail(ctx, "buyer@example.com")
	assert.NoError(t, err, "Expected no error when user is found")
	assert.Equal(t, "user_1", user.ID)
	assert.Equal(t, "buyer@example.com", user.Email)
	assert.Equal(t, []byte("hashed-password"), user.PassHash)
	assert.Equal(t, "buyer", user.Role)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "name", "phone", "pass_hash", "role", "created_at"})
	mock.ExpectQuery(userColumnsQuery).
		WithArgs("nobody@example.com").WillReturnRows(rows)

	user, err := repo.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err = repo.CreateUser(context.Background(), &models.User{
		ID: "user_1", Email: "taken@example.com", Name: "Andre", PassHash: []byte("hash"), Role: "buyer",
	})
	assert.ErrorIs(t, err, storage.ErrEmailTaken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSellerByEmail_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewSellerRepository(db)
	createdAt := time.Now()
	periodEnd := createdAt.Add(30 * 24 * time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "email", "business_name", "owner_name", "phone", "location", "business_type",
		"subscription_tier", "subscription_status", "stripe_customer_id", "stripe_subscription_id",
		"current_period_start", "current_period_end", "verified", "rating", "review_count",
		"sales_count", "pass_hash", "created_at",
	}).AddRow(
		"seller_1", "shop@example.com", "Kingston Auto Parts", "Marcia", "876-555-0102",
		"Kingston", "auto-parts-store", "gold", "active", "cus_123", "sub_123",
		createdAt, periodEnd, true, 4.5, 12, 40, []byte("hash"), createdAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM sellers WHERE email = \\$1").
		WithArgs("shop@example.com").WillReturnRows(rows)

	seller, err := repo.GetSellerByEmail(context.Background(), "shop@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "seller_1", seller.ID)
	assert.Equal(t, "gold", seller.SubscriptionTier)
	assert.True(t, seller.Verified)
	if assert.NotNil(t, seller.CurrentPeriodEnd) {
		assert.Equal(t, periodEnd, *seller.CurrentPeriodEnd)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSellerByEmail_NullPeriods(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewSellerRepository(db)
	createdAt := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "email", "business_name", "owner_name", "phone", "location", "business_type",
		"subscription_tier", "subscription_status", "stripe_customer_id", "stripe_subscription_id",
		"current_period_start", "current_period_end", "verified", "rating", "review_count",
		"sales_count", "pass_hash", "created_at",
	}).AddRow(
		"seller_2", "new@example.com", "Spanish Town Parts", "", "", "Kingston", "auto-parts-store",
		"basic", "inactive", "", "", nil, nil, false, 0.0, 0, 0, []byte("hash"), createdAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM sellers WHERE email = \\$1").
		WithArgs("new@example.com").WillReturnRows(rows)

	seller, err := repo.GetSellerByEmail(context.Background(), "new@example.com")
	assert.NoError(t, err)
	assert.Nil(t, seller.CurrentPeriodStart)
	assert.Nil(t, seller.CurrentPeriodEnd)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStripeCustomerID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewSellerRepository(db)

	mock.ExpectExec("UPDATE sellers SET stripe_customer_id = \\$1 WHERE id = \\$2").
		WithArgs("cus_123", "seller_missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SetStripeCustomerID(context.Background(), "seller_missing", "cus_123")
	assert.ErrorIs(t, err, storage.ErrSellerNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	now := time.Now()

	customerInfo := []byte(`{"firstName":"Andre","lastName":"Brown","email":"andre@example.com"}`)
	items := []byte(`[{"id":"p1","name":"Brake Pads","price":89.99,"quantity":1}]`)

	rows := sqlmock.NewRows([]string{
		"id", "customer_info", "items", "subtotal", "tax", "shipping", "total", "status",
		"payment_status", "payment_intent_id", "tracking_number", "notes", "estimated_delivery",
		"created_at", "updated_at",
	}).AddRow(
		"ord_1", customerInfo, items, 89.99, 7.20, 9.99, 107.18, "pending",
		"pending", "", "", "", nil, now, now,
	)

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id = \\$1").
		WithArgs("ord_1").WillReturnRows(rows)

	order, err := repo.GetOrderByID(context.Background(), "ord_1")
	assert.NoError(t, err)
	assert.Equal(t, "ord_1", order.ID)
	assert.Equal(t, "Andre", order.CustomerInfo.FirstName)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 89.99, order.Items[0].Price)
	assert.Nil(t, order.EstimatedDelivery)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)

	rows := sqlmock.NewRows([]string{"id"})
	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id = \\$1").
		WithArgs("ord_missing").WillReturnRows(rows)

	order, err := repo.GetOrderByID(context.Background(), "ord_missing")
	assert.ErrorIs(t, err, storage.ErrOrderNotFound)
	assert.Nil(t, order)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPartRequestByID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewPartRequestRepository(db)
	now := time.Now()
	expiresAt := now.Add(14 * 24 * time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "part_name", "part_number", "vehicle_make", "vehicle_model", "vehicle_year",
		"vehicle_trim", "oem_number", "condition", "description", "budget", "urgency",
		"buyer_name", "buyer_email", "buyer_phone", "location", "preferred_contact_method",
		"status", "responses_count", "expires_at", "deadline", "created_at", "updated_at",
	}).AddRow(
		"req_1", "Alternator", "", "Toyota", "Corolla", 2015, "", "", "any",
		"Need a replacement", 150.0, "medium", "Andre", "andre@example.com", "",
		"Kingston", "email", "active", 0, expiresAt, nil, now, now,
	)

	mock.ExpectQuery("SELECT (.+) FROM part_requests WHERE id = \\$1").
		WithArgs("req_1").WillReturnRows(rows)

	req, err := repo.GetPartRequestByID(context.Background(), "req_1")
	assert.NoError(t, err)
	assert.Equal(t, "Alternator", req.PartName)
	if assert.NotNil(t, req.Budget) {
		assert.Equal(t, 150.0, *req.Budget)
	}
	assert.Nil(t, req.Deadline)
	assert.Equal(t, expiresAt, req.ExpiresAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPartRequestByID_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewPartRequestRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM part_requests WHERE id = \\$1").
		WithArgs("req_1").WillReturnError(errors.New("connection refused"))

	_, err = repo.GetPartRequestByID(context.Background(), "req_1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrPartRequestNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
