package orders

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ItemInput struct {
	MenuItemID string `json:"menu_item_id" validate:"required"`
	Qty        int    `json:"qty" validate:"gt=0"`
	// UnitPrice is the price the kiosk showed. Zero skips the check.
	UnitPrice  int64  `json:"unit_price,omitempty" validate:"gte=0"`
}

type CreateInput struct {
	ExternalID    string        `json:"external_id" validate:"required"`
	TableID       string        `json:"table_id" validate:"required"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=cash card mobile_money"`
	Items         []ItemInput   `json:"items" validate:"required,min=1,dive"`
	ExpectedTotal int64         `json:"expected_total,omitempty" validate:"gte=0"`
}

type Repo struct{ DB *pgxpool.Pool }

var (
	ErrUnknownMenuItem = errors.New("unknown menu item")
	ErrPriceChanged    = errors.New("price changed")
)

// CreateOrderTx is idempotent via external_id: a replay returns the stored
// order with existed=true. Names and prices are read from menu_items, never
// trusted from the client, and copied into order_items. Prices the client
// quoted must match or the order is refused with ErrPriceChanged.
func (r *Repo) CreateOrderTx(ctx context.Context, in CreateInput) (o Order, existed bool, err error) {
	o, err = r.byExternalID(ctx, in.ExternalID)
	if err == nil {
		return o, true, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Order{}, false, err
	}

	items := mergeItems(in.Items)
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.MenuItemID)
	}
	rows, err := tx.Query(ctx, `SELECT id, name, price FROM menu_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return Order{}, false, err
	}
	byID := map[string]priced{}
	for rows.Next() {
		var mid string
		var p priced
		if err := rows.Scan(&mid, &p.name, &p.price); err != nil {
			rows.Close()
			return Order{}, false, err
		}
		byID[mid] = p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Order{}, false, err
	}

	lines, err := priceItems(items, byID, in.ExpectedTotal)
	if err != nil {
		return Order{}, false, err
	}
	o = Order{
		ID:            uuid.NewString(),
		ExternalID:    in.ExternalID,
		TableID:       in.TableID,
		PaymentMethod: in.PaymentMethod,
		Status:        in.PaymentMethod.InitialStatus(),
		Lines:         lines,
		Total:         SumLines(lines),
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders(id, external_id, table_id, payment_method, status, total)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		o.ID, o.ExternalID, o.TableID, o.PaymentMethod, o.Status, o.Total,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if isExternalIDConflict(err) {
		// a concurrent replay committed first
		_ = tx.Rollback(ctx)
		o, err = r.byExternalID(ctx, in.ExternalID)
		return o, err == nil, err
	}
	if err != nil {
		return Order{}, false, err
	}

	for i, l := range o.Lines {
		if _, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, position, menu_item_id, name, unit_price, qty)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			o.ID, i, l.MenuItemID, l.Name, l.UnitPrice, l.Qty,
		); err != nil {
			return Order{}, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, false, err
	}
	return o, false, nil
}

func (r *Repo) byExternalID(ctx context.Context, externalID string) (Order, error) {
	var id string
	err := r.DB.QueryRow(ctx, `SELECT id FROM orders WHERE external_id=$1`, externalID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	return r.Get(ctx, id)
}

// unique_violation on orders_external_id_key
func isExternalIDConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "orders_external_id_key"
}

type priced struct {
	name  string
	price int64
}

// priceItems copies names and current prices into order lines. A quoted unit
// price or expected total that disagrees with the catalog is ErrPriceChanged.
func priceItems(items []ItemInput, byID map[string]priced, expectedTotal int64) ([]Line, error) {
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMenuItem, it.MenuItemID)
		}
		if it.Qty <= 0 {
			return nil, fmt.Errorf("invalid qty for menu item %s", it.MenuItemID)
		}
		if it.UnitPrice > 0 && it.UnitPrice != p.price {
			return nil, fmt.Errorf("%w: %s is now %d Ar", ErrPriceChanged, p.name, p.price)
		}
		lines = append(lines, Line{MenuItemID: it.MenuItemID, Name: p.name, UnitPrice: p.price, Qty: it.Qty})
	}
	if total := SumLines(lines); expectedTotal > 0 && expectedTotal != total {
		return nil, fmt.Errorf("%w: total is now %d Ar", ErrPriceChanged, total)
	}
	return lines, nil
}

// mergeItems folds repeated menu items into one line, keeping first-seen order.
func mergeItems(items []ItemInput) []ItemInput {
	out := make([]ItemInput, 0, len(items))
	idx := map[string]int{}
	for _, it := range items {
		if i, ok := idx[it.MenuItemID]; ok {
			out[i].Qty += it.Qty
			continue
		}
		idx[it.MenuItemID] = len(out)
		out = append(out, it)
	}
	return out
}

const orderColumns = `id, external_id, table_id, payment_method, status, total, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.ExternalID, &o.TableID, &o.PaymentMethod, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return Order{}, err
	}
	lines, err := r.lines(ctx, []string{id})
	if err != nil {
		return Order{}, err
	}
	o.Lines = lines[id]
	return o, nil
}

func (r *Repo) GetOrderStatus(ctx context.Context, orderID string) (Status, error) {
	var s string
	err := r.DB.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, orderID).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return Status(s), nil
}

// List returns the newest orders first.
func (r *Repo) List(ctx context.Context, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(out))
	for _, o := range out {
		ids = append(ids, o.ID)
	}
	lines, err := r.lines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Lines = lines[out[i].ID]
	}
	return out, nil
}

func (r *Repo) lines(ctx context.Context, orderIDs []string) (map[string][]Line, error) {
	out := map[string][]Line{}
	if len(orderIDs) == 0 {
		return out, nil
	}
	rows, err := r.DB.Query(ctx, `
		SELECT order_id, menu_item_id, name, unit_price, qty
		  FROM order_items
		 WHERE order_id = ANY($1)
		 ORDER BY order_id, position`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var oid string
		var l Line
		if err := rows.Scan(&oid, &l.MenuItemID, &l.Name, &l.UnitPrice, &l.Qty); err != nil {
			return nil, err
		}
		out[oid] = append(out[oid], l)
	}
	return out, rows.Err()
}

// UpdateStatus locks the order row and applies the transition if allowed.
func (r *Repo) UpdateStatus(ctx context.Context, id string, to Status) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var from string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(Status(from), to) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, id, to); err != nil {
		return Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
