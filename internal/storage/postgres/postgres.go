package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shop_service/internal/config"
	"shop_service/internal/models"
	"shop_service/internal/storage"
)

// uniqueViolation is the postgres error code raised when an insert breaks
// a unique index. The index on users.email is the only guard against
// concurrent duplicate signups.
const uniqueViolation = "23505"

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg *config.Config) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	poolConfig, err := pgxpool.ParseConfig(dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return &PostgresRepo{pool: pool}, nil
}

func (r *PostgresRepo) SaveUser(ctx context.Context, email string, passHash []byte) (uuid.UUID, error) {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3);
	`

	id := uuid.New()

	_, err := r.pool.Exec(ctx, query, id, email, passHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return uuid.Nil, storage.ErrUserExists
		}

		return uuid.Nil, fmt.Errorf("%s: failed to save user: %w", op, err)
	}

	return id, nil
}

func (r *PostgresRepo) User(ctx context.Context, email string) (models.User, error) {
	const op = "storage.postgres.User"

	query := `
		SELECT id, email, password_hash
		FROM users
		WHERE email = $1;
	`

	var u models.User
	err := r.pool.QueryRow(ctx, query, email).Scan(&u.ID, &u.Email, &u.PassHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (r *PostgresRepo) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `
		SELECT id, email, password_hash
		FROM users
		WHERE id = $1;
	`

	var u models.User
	err := r.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.PassHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (r *PostgresRepo) DeleteUser(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeleteUser"

	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

func (r *PostgresRepo) SaveProduct(ctx context.Context, name string, price float64, imageURL string) (uuid.UUID, error) {
	const op = "storage.postgres.SaveProduct"

	query := `
		INSERT INTO products (id, name, price, image_url)
		VALUES ($1, $2, $3, $4);
	`

	id := uuid.New()

	if _, err := r.pool.Exec(ctx, query, id, name, price, imageURL); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *PostgresRepo) Product(ctx context.Context, id uuid.UUID) (models.Product, error) {
	const op = "storage.postgres.Product"

	query := `
		SELECT id, name, price, image_url
		FROM products
		WHERE id = $1;
	`

	var p models.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.ImageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, storage.ErrProductNotFound
		}

		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (r *PostgresRepo) Products(ctx context.Context) ([]models.Product, error) {
	const op = "storage.postgres.Products"

	query := `
		SELECT id, name, price, image_url
		FROM products
		ORDER BY name;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var products []models.Product

	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		products = append(products, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return products, nil
}

func (r *PostgresRepo) UpdateProduct(ctx context.Context, id uuid.UUID, patch models.ProductPatch) error {
	const op = "storage.postgres.UpdateProduct"

	query := `
		UPDATE products
		SET name      = COALESCE($2, name),
		    price     = COALESCE($3, price),
		    image_url = COALESCE($4, image_url)
		WHERE id = $1;
	`

	tag, err := r.pool.Exec(ctx, query, id, patch.Name, patch.Price, patch.ImageURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrProductNotFound
	}

	return nil
}

func (r *PostgresRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeleteProduct"

	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrProductNotFound
	}

	return nil
}

func (r *PostgresRepo) SaveOrder(ctx context.Context, productID, userID uuid.UUID, quantity int) (uuid.UUID, error) {
	const op = "storage.postgres.SaveOrder"

	query := `
		INSERT INTO orders (id, product_id, user_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`

	id := uuid.New()

	if _, err := r.pool.Exec(ctx, query, id, productID, userID, quantity, time.Now().UTC()); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *PostgresRepo) Order(ctx context.Context, id uuid.UUID) (models.Order, error) {
	const op = "storage.postgres.Order"

	query := `
		SELECT id, product_id, user_id, quantity, created_at
		FROM orders
		WHERE id = $1;
	`

	var o models.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(&o.ID, &o.ProductID, &o.UserID, &o.Quantity, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, storage.ErrOrderNotFound
		}

		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	return o, nil
}

func (r *PostgresRepo) Orders(ctx context.Context) ([]models.Order, error) {
	const op = "storage.postgres.Orders"

	query := `
		SELECT id, product_id, user_id, quantity, created_at
		FROM orders
		ORDER BY created_at DESC;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.ProductID, &o.UserID, &o.Quantity, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return orders, nil
}

func (r *PostgresRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeleteOrder"

	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrOrderNotFound
	}

	return nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}

func dsn(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s database=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
}
