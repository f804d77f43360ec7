package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID int64) (*Order, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts o and fills in the id and created_at assigned by the database.
// TotalPrice is replaced by the stored value, rounded to the column's scale.
func (r *PostgresRepository) Create(ctx context.Context, o *Order) error {
	var stored decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`INSERT INTO orders (user_id, product_ids, total_price, created_at)
         VALUES ($1, $2, $3, NOW())
         RETURNING id, total_price, created_at`,
		o.UserID, FormatProductIDs(o.ProductIDs), o.TotalPrice,
	).Scan(&o.ID, &stored, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	o.TotalPrice = stored
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, orderID int64) (*Order, error) {
	var (
		o          Order
		productIDs string
		total      decimal.Decimal
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, product_ids, total_price, created_at
         FROM orders WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.UserID, &productIDs, &total, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	o.ProductIDs, err = ParseProductIDs(productIDs)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", o.ID, err)
	}
	o.TotalPrice = total

	return &o, nil
}
