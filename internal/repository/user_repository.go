package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kashmirakothariai/Foundee/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,name,email_id,password,role,active_flag,crt_dt,crt_by,lst_updt_dt,lst_updt_by"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var pw, crtBy, updBy sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &pw, &u.Role, &u.IsActive,
		&u.CreatedAt, &crtBy, &u.UpdatedAt, &updBy)
	if err != nil {
		return model.User{}, err
	}
	u.PasswordHash = nullStr(pw)
	u.CreatedBy = nullStr(crtBy)
	u.UpdatedBy = nullStr(updBy)
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM user_login WHERE email_id=? LIMIT 1", email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM user_login WHERE id=? LIMIT 1", id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// CreateWithProfile inserts a user_login row together with its empty
// user_dtls skeleton in one transaction.  Google sign-in relies on this:
// either both rows land or neither does, so a user can never exist
// without a claimable profile.  passwordHash may be nil for OAuth
// accounts.
func (r *UserRepo) CreateWithProfile(ctx context.Context, name, email string, passwordHash *string, role string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	now := time.Now().UTC()
	uid := uuid.NewString()
	pid := uuid.NewString()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_login (id, name, email_id, password, role, active_flag, crt_dt, lst_updt_dt)
		 VALUES (?,?,?,?,?,1,?,?)`,
		uid, name, email, passwordHash, role, now, now)
	if err != nil {
		// MySQL error 1062 = duplicate key (unique email_id index)
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_dtls (id, user_id, email_id, active_flag, crt_dt, crt_by, lst_updt_dt)
		 VALUES (?,?,?,1,?,?,?)`,
		pid, uid, email, now, uid, now)
	if err != nil {
		return model.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, err
	}

	return model.User{
		ID:        uid,
		Name:      name,
		Email:     email,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
