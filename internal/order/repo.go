package order

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/akbarpress/printshop/internal/billing"
)

var (
	ErrNotFound = errors.New("order not found")
)

type Query struct {
	Q      string
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, q Query) ([]Order, int, error)
	Update(ctx context.Context, o *Order, replaceDigital, replaceOffset bool) error
	SetDelivered(ctx context.Context, id string, delivered bool) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// validID reports whether id can hit the uuid primary key at all; anything
// else is a guaranteed miss and must not reach the cast in the query.
func validID(id string) bool { return uuid.Validate(id) == nil }

// num renders a float for a NUMERIC column without binary float noise.
func num(v float64) string { return decimal.NewFromFloat(v).StringFixed(2) }

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cust, err := json.Marshal(o.Customer)
	if err != nil {
		return err
	}
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	if _, err := tx.Exec(ctx, `
    INSERT INTO orders (id, customer, total_digital, total_offset, total, received, remaining, is_delivered, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
  `, o.ID, cust, num(o.TotalDigital), num(o.TotalOffset), num(o.Total), num(o.Received), num(o.Remaining), o.IsDelivered, o.CreatedAt); err != nil {
		return err
	}

	if err := insertItems(ctx, tx, o.ID, o.Digital, o.Offset); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID string, digital []billing.DigitalItem, offset []billing.OffsetItem) error {
	for i, it := range digital {
		if _, err := tx.Exec(ctx, `
      INSERT INTO digital_items (id, order_id, position, name, quantity, height, width, unit_price, area, money, money_overridden)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    `, uuid.NewString(), orderID, i, it.Name,
			num(float64(it.Quantity)), num(float64(it.Height)), num(float64(it.Width)),
			num(float64(it.UnitPrice)), num(float64(it.Area)), num(float64(it.Money)), it.MoneyOverridden); err != nil {
			return err
		}
	}
	for i, it := range offset {
		if _, err := tx.Exec(ctx, `
      INSERT INTO offset_items (id, order_id, position, name, quantity, unit_price, money, money_overridden)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `, uuid.NewString(), orderID, i, it.Name,
			num(float64(it.Quantity)), num(float64(it.UnitPrice)), num(float64(it.Money)), it.MoneyOverridden); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		o    Order
		cust []byte
	)
	err := r.db.QueryRow(ctx, `
    SELECT id, customer, total_digital::float8, total_offset::float8, total::float8,
           received::float8, remaining::float8, is_delivered, created_at, updated_at
    FROM orders WHERE id=$1
  `, id).Scan(&o.ID, &cust, &o.TotalDigital, &o.TotalOffset, &o.Total,
		&o.Received, &o.Remaining, &o.IsDelivered, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(cust, &o.Customer); err != nil {
		return nil, err
	}

	if o.Digital, err = r.digitalItems(ctx, id); err != nil {
		return nil, err
	}
	if o.Offset, err = r.offsetItems(ctx, id); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepo) digitalItems(ctx context.Context, orderID string) ([]billing.DigitalItem, error) {
	rows, err := r.db.Query(ctx, `
    SELECT name, quantity::float8, height::float8, width::float8, unit_price::float8, area::float8, money::float8, money_overridden
    FROM digital_items WHERE order_id=$1 ORDER BY position
  `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []billing.DigitalItem{}
	for rows.Next() {
		var (
			it                            billing.DigitalItem
			qty, h, w, price, area, money float64
		)
		if err := rows.Scan(&it.Name, &qty, &h, &w, &price, &area, &money, &it.MoneyOverridden); err != nil {
			return nil, err
		}
		it.Quantity, it.Height, it.Width = billing.Number(qty), billing.Number(h), billing.Number(w)
		it.UnitPrice, it.Area, it.Money = billing.Number(price), billing.Number(area), billing.Number(money)
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PGRepo) offsetItems(ctx context.Context, orderID string) ([]billing.OffsetItem, error) {
	rows, err := r.db.Query(ctx, `
    SELECT name, quantity::float8, unit_price::float8, money::float8, money_overridden
    FROM offset_items WHERE order_id=$1 ORDER BY position
  `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []billing.OffsetItem{}
	for rows.Next() {
		var (
			it                billing.OffsetItem
			qty, price, money float64
		)
		if err := rows.Scan(&it.Name, &qty, &price, &money, &it.MoneyOverridden); err != nil {
			return nil, err
		}
		it.Quantity, it.UnitPrice, it.Money = billing.Number(qty), billing.Number(price), billing.Number(money)
		items = append(items, it)
	}
	return items, rows.Err()
}

// List returns one page of orders (without items) plus the matching row
// count. Q matches the customer name or the order id.
func (r *PGRepo) List(ctx context.Context, q Query) ([]Order, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	search := strings.TrimSpace(q.Q)

	var total int
	if err := r.db.QueryRow(ctx, `
    SELECT count(*) FROM orders
    WHERE ($1 = '' OR customer->>'name' ILIKE '%'||$1||'%' OR id::text ILIKE '%'||$1||'%')
  `, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
    SELECT id, customer, total_digital::float8, total_offset::float8, total::float8,
           received::float8, remaining::float8, is_delivered, created_at, updated_at
    FROM orders
    WHERE ($1 = '' OR customer->>'name' ILIKE '%'||$1||'%' OR id::text ILIKE '%'||$1||'%')
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var (
			o    Order
			cust []byte
		)
		if err := rows.Scan(&o.ID, &cust, &o.TotalDigital, &o.TotalOffset, &o.Total,
			&o.Received, &o.Remaining, &o.IsDelivered, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal(cust, &o.Customer); err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

// Update rewrites the order row and, for each category the caller actually
// sent, replaces the stored items wholesale. Old rows are deleted and the new
// collection inserted; there is no diffing.
func (r *PGRepo) Update(ctx context.Context, o *Order, replaceDigital, replaceOffset bool) error {
	if !validID(o.ID) {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cust, err := json.Marshal(o.Customer)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
    UPDATE orders
    SET customer = $2, total_digital = $3, total_offset = $4, total = $5,
        received = $6, remaining = $7, updated_at = NOW()
    WHERE id = $1
  `, o.ID, cust, num(o.TotalDigital), num(o.TotalOffset), num(o.Total), num(o.Received), num(o.Remaining))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if replaceDigital {
		if _, err := tx.Exec(ctx, `DELETE FROM digital_items WHERE order_id=$1`, o.ID); err != nil {
			return err
		}
	}
	if replaceOffset {
		if _, err := tx.Exec(ctx, `DELETE FROM offset_items WHERE order_id=$1`, o.ID); err != nil {
			return err
		}
	}
	var dig []billing.DigitalItem
	var off []billing.OffsetItem
	if replaceDigital {
		dig = o.Digital
	}
	if replaceOffset {
		off = o.Offset
	}
	if err := insertItems(ctx, tx, o.ID, dig, off); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) SetDelivered(ctx context.Context, id string, delivered bool) error {
	if !validID(id) {
		return ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders SET is_delivered = $2, updated_at = NOW() WHERE id = $1
  `, id, delivered)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM digital_items WHERE order_id=$1`, id); err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM offset_items WHERE order_id=$1`, id); err != nil {
		return false, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
