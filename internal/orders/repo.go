package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresRepo struct{ DB *pgxpool.Pool }

const orderCols = `id, customer_name, customer_email, customer_phone, shipping_address, total_amount, status, created_at, updated_at`

// Place runs the whole check-lock-decrement-insert sequence in one
// transaction. Product rows are locked FOR UPDATE in a stable order;
// shortages collect into a single error and roll everything back.
func (r *PostgresRepo) Place(ctx context.Context, o Order) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback(ctx)

	need := aggregateQty(o.Items)
	ids := make([]string, 0, len(need))
	for id := range need {
		ids = append(ids, id)
	}
	sort.Strings(ids) // stable lock order avoids tx deadlocks

	var shortages []Shortage
	for _, id := range ids {
		var name string
		var stock int
		err := tx.QueryRow(ctx, `SELECT name, stock FROM products WHERE id=$1 FOR UPDATE`, id).Scan(&name, &stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, &ProductNotFoundError{ProductID: id}
		}
		if err != nil {
			return Order{}, err
		}
		if stock < need[id] {
			shortages = append(shortages, Shortage{
				ProductID: id, Name: name, Requested: need[id], Available: stock,
			})
		}
	}
	if len(shortages) > 0 {
		return Order{}, &InsufficientStockError{Shortages: shortages} // rollback via defer
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO orders(id, customer_name, customer_email, customer_phone, shipping_address, total_amount, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING `+orderCols,
		o.ID, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.ShippingAddress,
		o.TotalAmount.String(), string(o.Status),
	)
	placed, err := scanOrder(row)
	if err != nil {
		return Order{}, err
	}

	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, quantity, price)
			VALUES ($1,$2,$3,$4)`,
			o.ID, it.ProductID, it.Quantity, it.Price.String(),
		); err != nil {
			return Order{}, err
		}
	}

	for _, id := range ids {
		ct, err := tx.Exec(ctx, `
			UPDATE products SET stock = stock - $2, updated_at = now()
			WHERE id = $1 AND stock >= $2`, id, need[id])
		if err != nil {
			return Order{}, err
		}
		if ct.RowsAffected() != 1 {
			// cannot happen while we hold the row lock, but never commit past it
			return Order{}, fmt.Errorf("stock decrement lost for product %s", id)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	placed.Items = o.Items
	return placed, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Order, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	o.Items, err = r.items(ctx, o.ID)
	return o, err
}

func (r *PostgresRepo) List(ctx context.Context, status *Status) ([]Order, error) {
	q := `SELECT ` + orderCols + ` FROM orders`
	var args []any
	if status != nil {
		q += ` WHERE status=$1`
		args = append(args, string(*status))
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Items, err = r.items(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateStatus checks the transition against the current status under a row
// lock so concurrent admin updates cannot race past the graph.
func (r *PostgresRepo) UpdateStatus(ctx context.Context, id string, to Status) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback(ctx)

	var cur string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&cur)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(Status(cur), to) {
		return Order{}, &InvalidTransitionError{From: Status(cur), To: to}
	}

	row := tx.QueryRow(ctx, `
		UPDATE orders SET status=$2, updated_at=now()
		WHERE id=$1
		RETURNING `+orderCols, id, string(to))
	o, err := scanOrder(row)
	if err != nil {
		return Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	o.Items, err = r.items(ctx, o.ID)
	return o, err
}

func (r *PostgresRepo) Stats(ctx context.Context, recent int) (Stats, error) {
	var st Stats
	var revenue string
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount::numeric), 0)::text,
		       COUNT(*) FILTER (WHERE status='PENDING')
		FROM orders`).Scan(&st.TotalOrders, &revenue, &st.PendingOrders)
	if err != nil {
		return Stats{}, err
	}
	if st.TotalRevenue, err = decimal.NewFromString(revenue); err != nil {
		return Stats{}, err
	}

	rows, err := r.DB.Query(ctx, `SELECT `+orderCols+` FROM orders ORDER BY created_at DESC LIMIT $1`, recent)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()
	if st.RecentOrders, err = collectOrders(rows); err != nil {
		return Stats{}, err
	}
	for i := range st.RecentOrders {
		if st.RecentOrders[i].Items, err = r.items(ctx, st.RecentOrders[i].ID); err != nil {
			return Stats{}, err
		}
	}
	return st, nil
}

func (r *PostgresRepo) items(ctx context.Context, orderID string) ([]LineItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, quantity, price FROM order_items
		WHERE order_id=$1 ORDER BY position`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LineItem
	for rows.Next() {
		var it LineItem
		var price string
		if err := rows.Scan(&it.ProductID, &it.Quantity, &price); err != nil {
			return nil, err
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func aggregateQty(items []LineItem) map[string]int {
	need := make(map[string]int, len(items))
	for _, it := range items {
		need[it.ProductID] += it.Quantity
	}
	return need
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var total, status string
	if err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.ShippingAddress, &total, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return Order{}, err
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return Order{}, err
	}
	o.TotalAmount = d
	o.Status = Status(status)
	return o, nil
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
