package purchases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/stylish/internal/dbx"
	"github.com/dmitrijs2005/stylish/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const invalidTextRepresentation = "22P02"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create writes the purchase row and its items in a single transaction.
func (r *PostgresRepository) Create(ctx context.Context, p *models.Purchase) (*models.Purchase, error) {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO purchases (user_id, total_amount, shipping_address, status)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at, updated_at`

		if err := tx.QueryRowContext(ctx, query,
			p.UserID, p.TotalAmount, p.ShippingAddress, string(p.Status),
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}

		items := psql.Insert("purchase_items").
			Columns("purchase_id", "position", "product_id", "product_name", "quantity", "price_per_item")
		for i, it := range p.Products {
			items = items.Values(p.ID, i, it.ProductID, it.ProductName, it.Quantity, it.PricePerItem)
		}

		itemsQuery, args, err := items.ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, itemsQuery, args...)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

// ListByUser loads purchases and their items with one LEFT JOIN and groups
// the rows in order.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Purchase, error) {
	query, args, err := psql.
		Select(
			"p.id", "p.user_id", "p.total_amount", "p.shipping_address", "p.status", "p.created_at", "p.updated_at",
			"i.product_id", "i.product_name", "i.quantity", "i.price_per_item",
		).
		From("purchases p").
		LeftJoin("purchase_items i ON i.purchase_id = p.id").
		Where(sq.Eq{"p.user_id": userID}).
		OrderBy("p.created_at DESC", "p.id DESC", "i.position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
			return []models.Purchase{}, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Purchase{}
	for rows.Next() {
		var (
			p           models.Purchase
			status      string
			address     sql.NullString
			productID   sql.NullString
			productName sql.NullString
			quantity    sql.NullInt64
			price       sql.NullFloat64
		)
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.TotalAmount, &address, &status, &p.CreatedAt, &p.UpdatedAt,
			&productID, &productName, &quantity, &price,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		if n := len(result); n == 0 || result[n-1].ID != p.ID {
			p.Status = models.PurchaseStatus(status)
			if address.Valid {
				a := address.String
				p.ShippingAddress = &a
			}
			p.Products = []models.LineItem{}
			result = append(result, p)
		}

		if productID.Valid {
			last := &result[len(result)-1]
			last.Products = append(last.Products, models.LineItem{
				ProductID:    productID.String,
				ProductName:  productName.String,
				Quantity:     int(quantity.Int64),
				PricePerItem: price.Float64,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
