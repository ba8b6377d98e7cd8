package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/kashmirakothariai/Foundee/internal/model"
)

type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

const profileCols = `id,user_id,first_name,last_name,mobile_no,address,email_id,
blood_grp,company_name,description,active_flag,crt_dt,crt_by,lst_updt_dt,lst_updt_by`

func scanProfile(row *sql.Row) (model.Profile, error) {
	var p model.Profile
	var first, last, mobile, addr, email, blood, company, desc, crtBy, updBy sql.NullString
	err := row.Scan(&p.ID, &p.UserID, &first, &last, &mobile, &addr, &email,
		&blood, &company, &desc, &p.IsActive, &p.CreatedAt, &crtBy, &p.UpdatedAt, &updBy)
	if err != nil {
		return model.Profile{}, err
	}
	p.FirstName = nullStr(first)
	p.LastName = nullStr(last)
	p.MobileNo = nullStr(mobile)
	p.Address = nullStr(addr)
	p.Email = nullStr(email)
	p.BloodGroup = nullStr(blood)
	p.CompanyName = nullStr(company)
	p.Description = nullStr(desc)
	p.CreatedBy = nullStr(crtBy)
	p.UpdatedBy = nullStr(updBy)
	return p, nil
}

// GetCanonicalByUser returns the user's primary profile.  The schema
// allows several user_dtls rows per user; the oldest active row wins, the
// same rule every other operation in the service applies.
func (r *ProfileRepo) GetCanonicalByUser(ctx context.Context, userID string) (model.Profile, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+profileCols+" FROM user_dtls WHERE user_id=? AND active_flag=1 ORDER BY crt_dt, id LIMIT 1",
		userID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return model.Profile{}, ErrNotFound
	}
	return p, err
}

// GetByID fetches a profile row regardless of owner.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (model.Profile, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+profileCols+" FROM user_dtls WHERE id=? LIMIT 1", id)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return model.Profile{}, ErrNotFound
	}
	return p, err
}

// Update writes every contact field of the profile back and stamps the
// acting user.  Callers apply the partial patch in memory first, so the
// wholesale UPDATE here keeps absent-vs-null handling out of SQL.
func (r *ProfileRepo) Update(ctx context.Context, p *model.Profile, actorID string) error {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`UPDATE user_dtls SET first_name=?, last_name=?, mobile_no=?, address=?,
		 email_id=?, blood_grp=?, company_name=?, description=?, lst_updt_dt=?, lst_updt_by=?
		 WHERE id=?`,
		p.FirstName, p.LastName, p.MobileNo, p.Address,
		p.Email, p.BloodGroup, p.CompanyName, p.Description, now, actorID, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected can legitimately be 0 when the values did not
		// change, so confirm the row exists before reporting not found.
		var one int
		if err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM user_dtls WHERE id=?", p.ID).Scan(&one); err == sql.ErrNoRows {
			return ErrNotFound
		} else if err != nil {
			return err
		}
	}
	p.UpdatedAt = now
	p.UpdatedBy = &actorID
	return nil
}
