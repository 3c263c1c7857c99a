// Package postgres implements store.Store over a Postgres database using
// the pgx stdlib driver. Schema changes run through embedded goose
// migrations at construction time.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/juanpablosotoc/zartex/internal/store"
	"github.com/juanpablosotoc/zartex/internal/store/postgres/migrations"
	"github.com/juanpablosotoc/zartex/internal/types"
)

const pgUniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

// New opens a connection pool for dsn and runs pending migrations.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return nil, fmt.Errorf("migration dialect error: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ---- images ----

func (s *Store) InsertImage(ctx context.Context, smallURL, mediumURL, largeURL string) (*types.ImageRecord, error) {
	query := `
		INSERT INTO images (small_url, medium_url, large_url)
		VALUES ($1, $2, $3)
		RETURNING id, small_url, medium_url, large_url, created_at
	`
	record := &types.ImageRecord{}
	err := s.db.QueryRowContext(ctx, query, smallURL, mediumURL, largeURL).
		Scan(&record.ID, &record.SmallURL, &record.MediumURL, &record.LargeURL, &record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert image: %w", err)
	}
	return record, nil
}

func (s *Store) GetImage(ctx context.Context, id int64) (*types.ImageRecord, error) {
	query := `SELECT id, small_url, medium_url, large_url, created_at FROM images WHERE id=$1`
	record := &types.ImageRecord{}
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&record.ID, &record.SmallURL, &record.MediumURL, &record.LargeURL, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select image: %w", err)
	}
	return record, nil
}

func (s *Store) DeleteImage(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "images", id)
}

// ---- clients ----

func (s *Store) CreateClient(ctx context.Context, client *types.Client) (*types.Client, error) {
	query := `
		INSERT INTO clients (is_admin, email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, date_joined
	`
	created := *client
	err := s.db.QueryRowContext(ctx, query,
		client.IsAdmin, client.Email, client.PasswordHash, client.FirstName, client.LastName).
		Scan(&created.ID, &created.DateJoined)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, store.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to insert client: %w", err)
	}
	return &created, nil
}

func (s *Store) GetClient(ctx context.Context, id int64) (*types.Client, error) {
	return s.scanClient(s.db.QueryRowContext(ctx,
		`SELECT id, is_admin, email, password_hash, first_name, last_name, date_joined
		 FROM clients WHERE id=$1`, id))
}

func (s *Store) GetClientByEmail(ctx context.Context, email string) (*types.Client, error) {
	return s.scanClient(s.db.QueryRowContext(ctx,
		`SELECT id, is_admin, email, password_hash, first_name, last_name, date_joined
		 FROM clients WHERE email=$1`, email))
}

func (s *Store) scanClient(row *sql.Row) (*types.Client, error) {
	client := &types.Client{}
	err := row.Scan(&client.ID, &client.IsAdmin, &client.Email, &client.PasswordHash,
		&client.FirstName, &client.LastName, &client.DateJoined)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select client: %w", err)
	}
	return client, nil
}

// UpdateClient applies the non-nil fields of patch. Field names are fixed
// at compile time; there is no reflective column mapping.
func (s *Store) UpdateClient(ctx context.Context, id int64, patch types.ClientPatch) (*types.Client, error) {
	set := newSetClause()
	if patch.Email != nil {
		set.add("email", *patch.Email)
	}
	if patch.FirstName != nil {
		set.add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		set.add("last_name", *patch.LastName)
	}
	if set.empty() {
		return s.GetClient(ctx, id)
	}

	query := fmt.Sprintf(`UPDATE clients SET %s WHERE id=$%d
		RETURNING id, is_admin, email, password_hash, first_name, last_name, date_joined`,
		set.sql(), set.next())
	client := &types.Client{}
	err := s.db.QueryRowContext(ctx, query, append(set.args, id)...).
		Scan(&client.ID, &client.IsAdmin, &client.Email, &client.PasswordHash,
			&client.FirstName, &client.LastName, &client.DateJoined)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, store.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

func (s *Store) DeleteClient(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "clients", id)
}

// ---- addresses ----

func (s *Store) CreateAddress(ctx context.Context, address *types.Address) (*types.Address, error) {
	query := `
		INSERT INTO addresses (client_id, street_address, city, state, postal_code, country, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	created := *address
	err := s.db.QueryRowContext(ctx, query,
		address.ClientID, address.StreetAddress, address.City, address.State,
		address.PostalCode, address.Country, address.IsDefault).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert address: %w", err)
	}
	return &created, nil
}

func (s *Store) ListAddresses(ctx context.Context, clientID int64) ([]*types.Address, error) {
	query := `
		SELECT id, client_id, street_address, city, state, postal_code, country, is_default, created_at
		FROM addresses WHERE client_id=$1 ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to select addresses: %w", err)
	}
	defer rows.Close()

	var result []*types.Address
	for rows.Next() {
		var a types.Address
		if err := rows.Scan(&a.ID, &a.ClientID, &a.StreetAddress, &a.City, &a.State,
			&a.PostalCode, &a.Country, &a.IsDefault, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) GetAddress(ctx context.Context, clientID, id int64) (*types.Address, error) {
	query := `
		SELECT id, client_id, street_address, city, state, postal_code, country, is_default, created_at
		FROM addresses WHERE id=$1 AND client_id=$2
	`
	address := &types.Address{}
	err := s.db.QueryRowContext(ctx, query, id, clientID).
		Scan(&address.ID, &address.ClientID, &address.StreetAddress, &address.City, &address.State,
			&address.PostalCode, &address.Country, &address.IsDefault, &address.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select address: %w", err)
	}
	return address, nil
}

func (s *Store) DeleteAddress(ctx context.Context, clientID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM addresses WHERE id=$1 AND client_id=$2`, id, clientID)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	return requireOneRow(res)
}

// ---- products ----

func (s *Store) CreateProduct(ctx context.Context, product *types.Product) (*types.Product, error) {
	query := `
		INSERT INTO products (name, price, product_type, current_quantity, for_baby, size, color, line)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	created := *product
	err := s.db.QueryRowContext(ctx, query,
		product.Name, product.Price, product.ProductType, product.CurrentQuantity,
		product.ForBaby, product.Size, product.Color, product.Line).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return &created, nil
}

func (s *Store) ListProducts(ctx context.Context, filter types.ProductFilter, skip, limit int) ([]*types.Product, error) {
	var (
		conds []string
		args  []any
	)
	cond := func(expr string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}
	if filter.ProductType != nil {
		cond("product_type = $%d", *filter.ProductType)
	}
	if filter.ForBaby != nil {
		cond("for_baby = $%d", *filter.ForBaby)
	}
	if filter.MinPrice != nil {
		cond("price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		cond("price <= $%d", *filter.MaxPrice)
	}
	if filter.Size != nil {
		cond("size = $%d", *filter.Size)
	}
	if filter.Color != nil {
		cond("color = $%d", *filter.Color)
	}
	if filter.Line != nil {
		cond("line = $%d", *filter.Line)
	}

	query := `SELECT id, name, price, product_type, current_quantity, for_baby,
		COALESCE(size, ''), COALESCE(color, ''), COALESCE(line, ''), created_at, updated_at
		FROM products`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY id OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, skip, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	defer rows.Close()

	var result []*types.Product
	for rows.Next() {
		var p types.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.ProductType, &p.CurrentQuantity,
			&p.ForBaby, &p.Size, &p.Color, &p.Line, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*types.Product, error) {
	query := `SELECT id, name, price, product_type, current_quantity, for_baby,
		COALESCE(size, ''), COALESCE(color, ''), COALESCE(line, ''), created_at, updated_at
		FROM products WHERE id=$1`
	product := &types.Product{}
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&product.ID, &product.Name, &product.Price, &product.ProductType, &product.CurrentQuantity,
			&product.ForBaby, &product.Size, &product.Color, &product.Line, &product.CreatedAt, &product.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select product: %w", err)
	}
	return product, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, patch types.ProductPatch) (*types.Product, error) {
	set := newSetClause()
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Price != nil {
		set.add("price", *patch.Price)
	}
	if patch.ProductType != nil {
		set.add("product_type", *patch.ProductType)
	}
	if patch.CurrentQuantity != nil {
		set.add("current_quantity", *patch.CurrentQuantity)
	}
	if patch.ForBaby != nil {
		set.add("for_baby", *patch.ForBaby)
	}
	if patch.Size != nil {
		set.add("size", *patch.Size)
	}
	if patch.Color != nil {
		set.add("color", *patch.Color)
	}
	if patch.Line != nil {
		set.add("line", *patch.Line)
	}
	if set.empty() {
		return s.GetProduct(ctx, id)
	}
	set.raw("updated_at = now()")

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id=$%d
		RETURNING id, name, price, product_type, current_quantity, for_baby,
		COALESCE(size, ''), COALESCE(color, ''), COALESCE(line, ''), created_at, updated_at`,
		set.sql(), set.next())
	product := &types.Product{}
	err := s.db.QueryRowContext(ctx, query, append(set.args, id)...).
		Scan(&product.ID, &product.Name, &product.Price, &product.ProductType, &product.CurrentQuantity,
			&product.ForBaby, &product.Size, &product.Color, &product.Line, &product.CreatedAt, &product.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "products", id)
}

// ---- helpers ----

func (s *Store) deleteByID(ctx context.Context, table string, id int64) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id=$1", table), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// setClause accumulates "col = $n" assignments with positional args.
type setClause struct {
	parts []string
	args  []any
}

func newSetClause() *setClause { return &setClause{} }

func (c *setClause) add(column string, value any) {
	c.args = append(c.args, value)
	c.parts = append(c.parts, fmt.Sprintf("%s = $%d", column, len(c.args)))
}

func (c *setClause) raw(expr string) {
	c.parts = append(c.parts, expr)
}

func (c *setClause) empty() bool  { return len(c.parts) == 0 }
func (c *setClause) sql() string  { return strings.Join(c.parts, ", ") }
func (c *setClause) next() int    { return len(c.args) + 1 }
