package menu

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const itemColumns = `id, name, description, price, category, image, created_at, updated_at`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Category, &it.Image, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	return it, err
}

func (r *Repo) List(ctx context.Context) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+itemColumns+` FROM menu_items ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (Item, error) {
	return scanItem(r.DB.QueryRow(ctx, `SELECT `+itemColumns+` FROM menu_items WHERE id=$1`, id))
}

func (r *Repo) Create(ctx context.Context, it Item) (Item, error) {
	it.ID = uuid.NewString()
	created, err := scanItem(r.DB.QueryRow(ctx, `
		INSERT INTO menu_items(id, name, description, price, category, image)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING `+itemColumns,
		it.ID, it.Name, it.Description, it.Price, it.Category, it.Image))
	return created, mapWriteErr(err)
}

func (r *Repo) Update(ctx context.Context, id string, it Item) (Item, error) {
	updated, err := scanItem(r.DB.QueryRow(ctx, `
		UPDATE menu_items
		   SET name=$2, description=$3, price=$4, category=$5, image=$6, updated_at=now()
		 WHERE id=$1
		RETURNING `+itemColumns,
		id, it.Name, it.Description, it.Price, it.Category, it.Image))
	return updated, mapWriteErr(err)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM menu_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// unique_violation on menu_items_name_key
func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateName
	}
	return err
}
