package publication

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const columns = `id, name, description, price, promo_price, image, created_at, updated_at`

func scan(row pgx.Row) (Publication, error) {
	var p Publication
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.PromoPrice, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Publication{}, ErrNotFound
	}
	return p, err
}

// List returns the newest publications first.
func (r *Repo) List(ctx context.Context) ([]Publication, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+columns+` FROM publications ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Publication{}
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, p Publication) (Publication, error) {
	return scan(r.DB.QueryRow(ctx, `
		INSERT INTO publications(id, name, description, price, promo_price, image)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING `+columns,
		uuid.NewString(), p.Name, p.Description, p.Price, p.PromoPrice, p.Image))
}

func (r *Repo) Update(ctx context.Context, id string, p Publication) (Publication, error) {
	return scan(r.DB.QueryRow(ctx, `
		UPDATE publications
		   SET name=$2, description=$3, price=$4, promo_price=$5, image=$6, updated_at=now()
		 WHERE id=$1
		RETURNING `+columns,
		id, p.Name, p.Description, p.Price, p.PromoPrice, p.Image))
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM publications WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
