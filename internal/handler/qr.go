package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kashmirakothariai/Foundee/internal/model"
	"github.com/kashmirakothariai/Foundee/internal/queue"
	"github.com/kashmirakothariai/Foundee/internal/repository"
)

// QRHandler implements the QR registry: creation, the public scan path,
// owner management and first-claim binding.
type QRHandler struct {
	Users    UserStore
	Profiles ProfileStore
	QRs      QRStore
	Scans    ScanStore
	Publish  AlertPublisher
	Logger   *slog.Logger
}

func NewQRHandler(users UserStore, profiles ProfileStore, qrs QRStore, scans ScanStore, publish AlertPublisher, logger *slog.Logger) *QRHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QRHandler{Users: users, Profiles: profiles, QRs: qrs, Scans: scans, Publish: publish, Logger: logger}
}

// ----- DTOs -----

type qrCreateReq struct {
	model.Visibility
	ProfileID *string `json:"user_dtls_id"`
}

type qrResp struct {
	ID         string    `json:"id"`
	ProfileID  *string   `json:"user_dtls_id"`
	IsActive   bool      `json:"active_flag"`
	CreatedAt  time.Time `json:"crt_dt"`
	UpdatedAt  time.Time `json:"lst_updt_dt"`
	ScanCount  *int64    `json:"scan_count,omitempty"`
	Visibility           // flattened flags: first_name .. description
}

// Visibility is embedded under its own name to flatten the eight flags
// into the QR response object next to the record fields.
type Visibility = model.Visibility

func toQRResp(q model.QRCode) qrResp {
	return qrResp{
		ID:         q.ID,
		ProfileID:  q.ProfileID,
		IsActive:   q.IsActive,
		CreatedAt:  q.CreatedAt,
		UpdatedAt:  q.UpdatedAt,
		Visibility: q.Visibility,
	}
}

type scanResp struct {
	QRID        string             `json:"qr_id"`
	ProfileID   *string            `json:"user_dtls_id"`
	UserDetails map[string]*string `json:"user_details"`
	IsOwner     bool               `json:"is_owner"`
}

// ----- admin creation -----

// Create persists a new QR code with caller-chosen visibility flags,
// bound to one of the creator's own profiles.  Admin only (enforced by
// route middleware).  Binding a fresh code to someone else's profile is
// not exposed.
func (h *QRHandler) Create(c echo.Context) error {
	uid := currentUserID(c)

	var req qrCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var target model.Profile
	var err error
	if req.ProfileID == nil {
		target, err = h.Profiles.GetCanonicalByUser(ctx, uid)
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user details not found, update your profile first"})
		}
	} else {
		target, err = h.Profiles.GetByID(ctx, *req.ProfileID)
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot create qr for another user's details"})
		}
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.Logger.Error("create qr: profile lookup failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if target.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot create qr for another user's details"})
	}

	q, err := h.QRs.Create(ctx, &target.ID, req.Visibility, uid)
	if err != nil {
		h.Logger.Error("create qr: insert failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create qr failed"})
	}
	return c.JSON(http.StatusOK, toQRResp(q))
}

// CreateUnbound persists a claimable QR code with no owner and every
// visibility flag on.  The first authenticated user to bind it becomes
// its owner and can then tighten the flags.
func (h *QRHandler) CreateUnbound(c echo.Context) error {
	uid := currentUserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	q, err := h.QRs.Create(ctx, nil, model.AllVisible(), uid)
	if err != nil {
		h.Logger.Error("create unbound qr: insert failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create qr failed"})
	}
	return c.JSON(http.StatusOK, toQRResp(q))
}

// ----- public scan -----

// Scan is the public read path.  Every hit on an existing active code is
// logged; a bound code exposes the owner's profile filtered through the
// visibility flags and alerts the owner unless they scanned it
// themselves.  Log and alert failures never fail the response.
func (h *QRHandler) Scan(c echo.Context) error {
	qrID := c.Param("qr_id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Resolve the scanner, if any.  The optional-auth middleware already
	// validated the token; a token whose account has since vanished is
	// still rejected here.
	var scanner *model.User
	if uid := currentUserID(c); uid != "" {
		u, err := h.Users.GetByID(ctx, uid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			h.Logger.Error("scan: scanner lookup failed", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		scanner = &u
	}

	q, err := h.QRs.GetActiveByID(ctx, qrID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "qr code not found"})
		}
		h.Logger.Error("scan: qr lookup failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	lat := optQuery(c, "latitude")
	lng := optQuery(c, "longitude")

	// Usage logging is unconditional and fault-tolerant: the scanner
	// still gets their response when the insert fails.
	ev := model.ScanEvent{QRID: q.ID, Latitude: lat, Longitude: lng}
	if scanner != nil {
		ev.ScannedBy = &scanner.ID
	}
	if err := h.Scans.Insert(ctx, &ev); err != nil {
		h.Logger.Error("scan: usage log failed", "qr_id", q.ID, "err", err)
	}

	if !q.Bound() {
		return c.JSON(http.StatusOK, scanResp{QRID: q.ID})
	}

	profile, err := h.Profiles.GetByID(ctx, *q.ProfileID)
	if err != nil {
		// A bound code whose profile row is missing degrades to the
		// unbound response shape; the binding itself is not revealed as
		// broken to the scanner.
		if !errors.Is(err, repository.ErrNotFound) {
			h.Logger.Error("scan: profile lookup failed", "qr_id", q.ID, "err", err)
		}
		return c.JSON(http.StatusOK, scanResp{QRID: q.ID, ProfileID: q.ProfileID})
	}

	isOwner := scanner != nil && profile.UserID == scanner.ID

	if !isOwner {
		if owner, err := h.Users.GetByID(ctx, profile.UserID); err == nil {
			h.notifyOwner(ctx, q.ID, owner.Email, lat, lng)
		} else {
			h.Logger.Warn("scan: owner lookup failed, no alert sent", "qr_id", q.ID, "err", err)
		}
	}

	details := q.Visibility.Filter(&profile)
	if len(details) == 0 {
		// Every flag off: the details object is absent, not empty.
		details = nil
	}
	return c.JSON(http.StatusOK, scanResp{
		QRID:        q.ID,
		ProfileID:   q.ProfileID,
		UserDetails: details,
		IsOwner:     isOwner,
	})
}

// notifyOwner publishes the scan alert event, best-effort.
func (h *QRHandler) notifyOwner(ctx context.Context, qrID, ownerEmail string, lat, lng *string) {
	if h.Publish == nil {
		return
	}
	err := h.Publish(ctx, queue.QRScannedEvent{
		QRID:       qrID,
		OwnerEmail: ownerEmail,
		Latitude:   lat,
		Longitude:  lng,
		ScannedAt:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.Logger.Error("scan: alert publish failed", "qr_id", qrID, "err", err)
	}
}

// ----- owner management -----

// loadOwned fetches a QR code and authorizes the caller as the owner of
// its bound profile.  Unbound codes are off limits to everyone, including
// the admin who minted them.
func (h *QRHandler) loadOwned(ctx context.Context, c echo.Context, qrID string) (model.QRCode, bool) {
	uid := currentUserID(c)

	q, err := h.QRs.GetByID(ctx, qrID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "qr code not found"})
		} else {
			h.Logger.Error("qr lookup failed", "err", err)
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return model.QRCode{}, false
	}
	if !q.Bound() {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "qr code is not bound to any user"})
		return model.QRCode{}, false
	}
	profile, err := h.Profiles.GetByID(ctx, *q.ProfileID)
	if err != nil || profile.UserID != uid {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			h.Logger.Error("qr owner check failed", "err", err)
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		} else {
			_ = c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized for this qr code"})
		}
		return model.QRCode{}, false
	}
	return q, true
}

// Details returns the full QR record, raw visibility flags included, to
// the owner of the bound profile.
func (h *QRHandler) Details(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	q, ok := h.loadOwned(ctx, c, c.Param("qr_id"))
	if !ok {
		return nil
	}
	resp := toQRResp(q)
	if n, err := h.Scans.CountByQR(ctx, q.ID); err == nil {
		resp.ScanCount = &n
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdatePermissions replaces all eight visibility flags wholesale; this
// is not a partial patch.
func (h *QRHandler) UpdatePermissions(c echo.Context) error {
	uid := currentUserID(c)

	var flags model.Visibility
	if err := c.Bind(&flags); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	q, ok := h.loadOwned(ctx, c, c.Param("qr_id"))
	if !ok {
		return nil
	}
	if err := h.QRs.UpdateVisibility(ctx, q.ID, flags, uid); err != nil {
		h.Logger.Error("update permissions failed", "qr_id", q.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	q.Visibility = flags
	q.UpdatedBy = &uid
	return c.JSON(http.StatusOK, toQRResp(q))
}

// Bind claims an unbound QR code for the caller's canonical profile.
// First claim wins; a second bind gets 409, never a silent success.
func (h *QRHandler) Bind(c echo.Context) error {
	uid := currentUserID(c)
	qrID := c.Param("qr_id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	profile, err := h.Profiles.GetCanonicalByUser(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user details not found, update your profile first"})
		}
		h.Logger.Error("bind: profile lookup failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.QRs.Bind(ctx, qrID, profile.ID, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "qr code not found"})
		case errors.Is(err, repository.ErrAlreadyBound):
			return c.JSON(http.StatusConflict, echo.Map{"error": "qr code is already bound to a user"})
		default:
			h.Logger.Error("bind failed", "qr_id", qrID, "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "bind failed"})
		}
	}

	q, err := h.QRs.GetByID(ctx, qrID)
	if err != nil {
		h.Logger.Error("bind: reload failed", "qr_id", qrID, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toQRResp(q))
}

// MyQRCodes lists all active QR codes bound to any of the caller's
// profiles.
func (h *QRHandler) MyQRCodes(c echo.Context) error {
	uid := currentUserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	codes, err := h.QRs.ListByOwner(ctx, uid)
	if err != nil {
		h.Logger.Error("list qr codes failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]qrResp, 0, len(codes))
	for _, q := range codes {
		out = append(out, toQRResp(q))
	}
	return c.JSON(http.StatusOK, out)
}

func optQuery(c echo.Context, name string) *string {
	if v := c.QueryParam(name); v != "" {
		return &v
	}
	return nil
}
