package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shoplens/backend/internal/domain"
)

const productsSchema = `
CREATE TABLE IF NOT EXISTS products (
	position    INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL,
	name        TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	price       REAL,
	brand       TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	url         TEXT NOT NULL DEFAULT '',
	image       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_products_id ON products(id);
`

// SQLiteProvider reads and stores the catalog in a SQLite table
type SQLiteProvider struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the catalog database at path
func OpenSQLite(ctx context.Context, path string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %v", domain.ErrCatalogSourceFailure, err)
	}

	if _, err := db.ExecContext(ctx, productsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create schema: %v", domain.ErrCatalogSourceFailure, err)
	}

	return &SQLiteProvider{db: db, path: path}, nil
}

// Name identifies the provider in logs
func (p *SQLiteProvider) Name() string {
	return "sqlite:" + p.path
}

// Load returns every stored product in insertion order
func (p *SQLiteProvider) Load(ctx context.Context) ([]domain.Product, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, description, price, brand, category, url, image FROM products ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: query products: %v", domain.ErrCatalogSourceFailure, err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var (
			product domain.Product
			price   sql.NullFloat64
		)
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &price,
			&product.Brand, &product.Category, &product.URL, &product.Image); err != nil {
			return nil, fmt.Errorf("%w: scan product: %v", domain.ErrCatalogSourceFailure, err)
		}
		if price.Valid {
			product.Price = domain.PriceOf(price.Float64)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogSourceFailure, err)
	}
	return products, nil
}

// Save replaces the stored catalog with products in a single transaction
func (p *SQLiteProvider) Save(ctx context.Context, products []domain.Product) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO products (id, name, description, price, brand, category, url, image) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, product := range products {
		var price sql.NullFloat64
		if product.Price != nil {
			price = sql.NullFloat64{Float64: *product.Price, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, product.ID, product.Name, product.Description, price,
			product.Brand, product.Category, product.URL, product.Image); err != nil {
			return fmt.Errorf("insert product %q: %w", product.ID, err)
		}
	}

	return tx.Commit()
}

// Close closes the database
func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}
