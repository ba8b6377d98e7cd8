package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/kashmirakothariai/Foundee/internal/model"
)

// ScanRepo appends rows to the qr_usage log.  The table is append-only;
// nothing in the service updates or deletes usage rows.
type ScanRepo struct{ DB *sql.DB }

func NewScanRepo(db *sql.DB) *ScanRepo { return &ScanRepo{DB: db} }

// Insert records a single scan.  scannedBy is nil for anonymous scans.
func (r *ScanRepo) Insert(ctx context.Context, ev *model.ScanEvent) error {
	ev.ID = uuid.NewString()
	ev.CreatedAt = time.Now().UTC()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO qr_usage (id, qr_id, latitude, longitude, active_flag, crt_dt, crt_by, lst_updt_dt)
		 VALUES (?,?,?,?,1,?,?,?)`,
		ev.ID, ev.QRID, ev.Latitude, ev.Longitude, ev.CreatedAt, ev.ScannedBy, ev.CreatedAt)
	return err
}

// CountByQR returns the number of logged scans for a QR code.  Exposed for
// owners who want to see how often their tag has been read.
func (r *ScanRepo) CountByQR(ctx context.Context, qrID string) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM qr_usage WHERE qr_id=?", qrID).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return n, err
}
