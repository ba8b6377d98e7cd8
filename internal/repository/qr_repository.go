package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/kashmirakothariai/Foundee/internal/model"
)

// QRRepo provides access to the qr_dtls table.  The one state transition
// a QR code has (unbound -> bound) is enforced here with a conditional
// UPDATE rather than in application code, so two concurrent claims of the
// same code cannot both win.
type QRRepo struct{ DB *sql.DB }

func NewQRRepo(db *sql.DB) *QRRepo { return &QRRepo{DB: db} }

const qrCols = `id,user_dtls_id,first_name,last_name,mobile_no,address,email_id,
blood_grp,company_name,description,active_flag,crt_dt,crt_by,lst_updt_dt,lst_updt_by`

func scanQR(row *sql.Row) (model.QRCode, error) {
	var q model.QRCode
	var profileID, crtBy, updBy sql.NullString
	v := &q.Visibility
	err := row.Scan(&q.ID, &profileID, &v.FirstName, &v.LastName, &v.MobileNo, &v.Address,
		&v.Email, &v.BloodGroup, &v.CompanyName, &v.Description,
		&q.IsActive, &q.CreatedAt, &crtBy, &q.UpdatedAt, &updBy)
	if err != nil {
		return model.QRCode{}, err
	}
	q.ProfileID = nullStr(profileID)
	q.CreatedBy = nullStr(crtBy)
	q.UpdatedBy = nullStr(updBy)
	return q, nil
}

// Create inserts a new QR code.  profileID nil persists the code unbound.
func (r *QRRepo) Create(ctx context.Context, profileID *string, vis model.Visibility, creatorID string) (model.QRCode, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO qr_dtls (id, user_dtls_id, first_name, last_name, mobile_no, address,
		 email_id, blood_grp, company_name, description, active_flag, crt_dt, crt_by, lst_updt_dt)
		 VALUES (?,?,?,?,?,?,?,?,?,?,1,?,?,?)`,
		id, profileID, vis.FirstName, vis.LastName, vis.MobileNo, vis.Address,
		vis.Email, vis.BloodGroup, vis.CompanyName, vis.Description, now, creatorID, now)
	if err != nil {
		return model.QRCode{}, err
	}
	return model.QRCode{
		ID:         id,
		ProfileID:  profileID,
		Visibility: vis,
		IsActive:   true,
		CreatedAt:  now,
		CreatedBy:  &creatorID,
		UpdatedAt:  now,
	}, nil
}

// GetActiveByID fetches an active QR code.  Inactive and missing codes
// are both reported as ErrNotFound; scanners cannot tell them apart.
func (r *QRRepo) GetActiveByID(ctx context.Context, id string) (model.QRCode, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+qrCols+" FROM qr_dtls WHERE id=? AND active_flag=1 LIMIT 1", id)
	q, err := scanQR(row)
	if err == sql.ErrNoRows {
		return model.QRCode{}, ErrNotFound
	}
	return q, err
}

// GetByID fetches a QR code regardless of the active flag.  Owner-facing
// endpoints use it so a disabled code is still manageable.
func (r *QRRepo) GetByID(ctx context.Context, id string) (model.QRCode, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+qrCols+" FROM qr_dtls WHERE id=? LIMIT 1", id)
	q, err := scanQR(row)
	if err == sql.ErrNoRows {
		return model.QRCode{}, ErrNotFound
	}
	return q, err
}

// UpdateVisibility replaces all eight flags wholesale and stamps the actor.
func (r *QRRepo) UpdateVisibility(ctx context.Context, id string, vis model.Visibility, actorID string) error {
	now := time.Now().UTC()
	_, err := r.DB.ExecContext(ctx,
		`UPDATE qr_dtls SET first_name=?, last_name=?, mobile_no=?, address=?,
		 email_id=?, blood_grp=?, company_name=?, description=?, lst_updt_dt=?, lst_updt_by=?
		 WHERE id=?`,
		vis.FirstName, vis.LastName, vis.MobileNo, vis.Address,
		vis.Email, vis.BloodGroup, vis.CompanyName, vis.Description, now, actorID, id)
	return err
}

// Bind claims an unbound QR code for the given profile.  The WHERE clause
// only matches while user_dtls_id is still NULL, so of two concurrent
// binds exactly one updates a row; the other sees zero rows affected and
// is told the code is already bound.
func (r *QRRepo) Bind(ctx context.Context, id, profileID, actorID string) error {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`UPDATE qr_dtls SET user_dtls_id=?, lst_updt_dt=?, lst_updt_by=?
		 WHERE id=? AND user_dtls_id IS NULL AND active_flag=1`,
		profileID, now, actorID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "lost the race" from "no such code".
		var bound sql.NullString
		err := r.DB.QueryRowContext(ctx,
			"SELECT user_dtls_id FROM qr_dtls WHERE id=? AND active_flag=1", id).Scan(&bound)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return ErrAlreadyBound
	}
	return nil
}

// ListByOwner returns all active QR codes bound to any profile owned by
// the user, newest first.
func (r *QRRepo) ListByOwner(ctx context.Context, userID string) ([]model.QRCode, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT q.id, q.user_dtls_id, q.first_name, q.last_name, q.mobile_no, q.address,
		        q.email_id, q.blood_grp, q.company_name, q.description,
		        q.active_flag, q.crt_dt, q.crt_by, q.lst_updt_dt, q.lst_updt_by
		 FROM qr_dtls q
		 JOIN user_dtls d ON d.id = q.user_dtls_id
		 WHERE d.user_id=? AND q.active_flag=1
		 ORDER BY q.crt_dt DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.QRCode
	for rows.Next() {
		var q model.QRCode
		var profileID, crtBy, updBy sql.NullString
		v := &q.Visibility
		if err := rows.Scan(&q.ID, &profileID, &v.FirstName, &v.LastName, &v.MobileNo, &v.Address,
			&v.Email, &v.BloodGroup, &v.CompanyName, &v.Description,
			&q.IsActive, &q.CreatedAt, &crtBy, &q.UpdatedAt, &updBy); err != nil {
			return nil, err
		}
		q.ProfileID = nullStr(profileID)
		q.CreatedBy = nullStr(crtBy)
		q.UpdatedBy = nullStr(updBy)
		out = append(out, q)
	}
	return out, rows.Err()
}
