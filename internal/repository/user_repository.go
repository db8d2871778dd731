package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/media-review-api/internal/model"
)

// UserRepo persists users. The email column carries a unique key that makes
// get-or-create safe under concurrent first-time code requests: whichever
// insert loses the race falls back to re-fetching the winner's row.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,email,username,role,bio,first_name,last_name,is_active,is_superuser,last_login_at,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var role string
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.Username, &role, &u.Bio, &u.FirstName,
		&u.LastName, &u.IsActive, &u.Superuser, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if u.Role, err = model.ParseRole(role); err != nil {
		return model.User{}, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}

// normalizeEmail lowers and trims an email so the unique key is
// case-insensitive in practice.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", normalizeEmail(email)))
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByUsername fetches a user by username, the admin surface's lookup key.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username)))
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetOrCreateByEmail returns the user for email, creating one with role
// "user" and username equal to the email if none exists. The second return
// value reports whether a row was created. Losing the insert race against
// a concurrent request is not an error.
func (r *UserRepo) GetOrCreateByEmail(ctx context.Context, email string) (model.User, bool, error) {
	email = normalizeEmail(email)
	u, err := r.GetByEmail(ctx, email)
	if err == nil {
		return u, false, nil
	}
	if err != ErrUserNotFound {
		return model.User{}, false, err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (email, username, role, bio) VALUES (?,?,?,'')",
		email, email, model.RoleUser.String())
	if err != nil && !isDuplicate(err) {
		return model.User{}, false, err
	}
	created := err == nil
	u, err = r.GetByEmail(ctx, email)
	return u, created, err
}

// Create inserts a user from the admin surface. A blank username defaults
// to the email, matching the self-assignment rule on first code request.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	if strings.TrimSpace(u.Username) == "" {
		u.Username = u.Email
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, username, role, bio, first_name, last_name) VALUES (?,?,?,?,?,?)",
		u.Email, u.Username, u.Role.String(), u.Bio, u.FirstName, u.LastName)
	if err != nil {
		if isDuplicate(err) {
			return ErrUserExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	u.IsActive = true
	return nil
}

// List returns users, optionally filtered by a username substring.
func (r *UserRepo) List(ctx context.Context, search string) ([]model.User, error) {
	q := "SELECT " + userCols + " FROM users"
	args := []any{}
	if s := strings.TrimSpace(search); s != "" {
		q += " WHERE username LIKE ?"
		args = append(args, "%"+s+"%")
	}
	q += " ORDER BY id"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		var role string
		var lastLogin sql.NullTime
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &role, &u.Bio, &u.FirstName,
			&u.LastName, &u.IsActive, &u.Superuser, &lastLogin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if u.Role, err = model.ParseRole(role); err != nil {
			return nil, err
		}
		if lastLogin.Valid {
			t := lastLogin.Time
			u.LastLoginAt = &t
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Save writes the mutable fields of an existing user. Email is immutable
// and deliberately absent from the statement. Changing any of these fields
// rolls the state fingerprint, so outstanding confirmation codes die with
// the update.
func (r *UserRepo) Save(ctx context.Context, u model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET username=?, role=?, bio=?, first_name=?, last_name=?, is_active=? WHERE id=?",
		u.Username, u.Role.String(), u.Bio, u.FirstName, u.LastName, u.IsActive, u.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrUserExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero affected rows also happens on a no-op update; confirm the
		// row exists before reporting not-found.
		if _, err := r.GetByID(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}

// TouchLastLogin moves last_login_at to now. Called on every successful
// token issuance so the confirmation code that just proved the login can
// never be replayed.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET last_login_at=UTC_TIMESTAMP(6) WHERE id=?", id)
	return err
}

// DeleteByUsername removes a user from the admin surface.
func (r *UserRepo) DeleteByUsername(ctx context.Context, username string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM users WHERE username=?", strings.TrimSpace(username))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
