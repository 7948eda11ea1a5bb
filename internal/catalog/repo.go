package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresRepo struct{ DB *pgxpool.Pool }

const productCols = `id, name, description, price, image_url, stock, category, featured, created_at, updated_at`

func (r *PostgresRepo) Create(ctx context.Context, p Product) (Product, error) {
	p.ID = uuid.NewString()
	row := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, name, description, price, image_url, stock, category, featured)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+productCols,
		p.ID, p.Name, p.Description, p.Price.String(), p.ImageURL, p.Stock, p.Category, p.Featured,
	)
	return scanProduct(row)
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Product, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepo) List(ctx context.Context, featuredOnly bool) ([]Product, error) {
	q := `SELECT ` + productCols + ` FROM products`
	if featuredOnly {
		q += ` WHERE featured`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, p Product) (Product, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE products
		SET name=$2, description=$3, price=$4, image_url=$5, stock=$6, category=$7, featured=$8, updated_at=now()
		WHERE id=$1
		RETURNING `+productCols,
		p.ID, p.Name, p.Description, p.Price.String(), p.ImageURL, p.Stock, p.Category, p.Featured,
	)
	updated, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return updated, err
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var price string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.ImageURL,
		&p.Stock, &p.Category, &p.Featured, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Product{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return Product{}, err
	}
	p.Price = d
	return p, nil
}
