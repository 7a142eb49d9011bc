package userrepo

import (
	"context"
	"database/sql"

	"bookmarket/model"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByID(ctx context.Context, id int64) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByKeyword(ctx context.Context, keyword string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id int64) error

	LockByID(ctx context.Context, tx *sql.Tx, id int64) (*model.User, error)
	UpdateFunds(ctx context.Context, tx *sql.Tx, id int64, funds float64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const userCols = `id, username, email, password_hash, first_name, last_name, phone_number, funds, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.PhoneNumber, &u.Funds, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users(username, email, password_hash, first_name, last_name, phone_number, funds)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at`,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.PhoneNumber, u.Funds,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE lower(email) = lower($1)`, email))
}

// ByKeyword matches either email or username, case-insensitively.
func (r *repo) ByKeyword(ctx context.Context, keyword string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `
        SELECT `+userCols+`
        FROM users
        WHERE lower(email) = lower($1) OR lower(username) = lower($1)`,
		keyword))
}

func (r *repo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userCols+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, u *model.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET username=$2, email=$3, first_name=$4, last_name=$5, phone_number=$6
		WHERE id=$1`,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.PhoneNumber)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) LockByID(ctx context.Context, tx *sql.Tx, id int64) (*model.User, error) {
	return scanUser(tx.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id=$1 FOR UPDATE`, id))
}

func (r *repo) UpdateFunds(ctx context.Context, tx *sql.Tx, id int64, funds float64) error {
	res, err := tx.ExecContext(ctx, `UPDATE users SET funds=$2 WHERE id=$1`, id, funds)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
