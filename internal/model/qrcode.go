package model

import "time"

// Visibility holds the eight per-field booleans stored on a QR record.
// A true flag exposes the corresponding profile field in scan output; a
// false flag removes the key entirely.
type Visibility struct {
	FirstName   bool `json:"first_name"`
	LastName    bool `json:"last_name"`
	MobileNo    bool `json:"mobile_no"`
	Address     bool `json:"address"`
	Email       bool `json:"email_id"`
	BloodGroup  bool `json:"blood_grp"`
	CompanyName bool `json:"company_name"`
	Description bool `json:"description"`
}

// AllVisible is the default for unbound QR codes: every field exposed
// until the claiming owner tightens the permissions.
func AllVisible() Visibility {
	return Visibility{
		FirstName:   true,
		LastName:    true,
		MobileNo:    true,
		Address:     true,
		Email:       true,
		BloodGroup:  true,
		CompanyName: true,
		Description: true,
	}
}

// Filter copies profile fields whose flag is true into a map keyed by the
// wire field name.  False flags omit the key, they never null it.  The
// copied value may itself be nil when the profile field is empty.  An
// all-false visibility yields an empty map; callers decide how to render
// that (the scan handler renders it as an absent object).
func (v Visibility) Filter(p *Profile) map[string]*string {
	out := make(map[string]*string, 8)
	if v.FirstName {
		out["first_name"] = p.FirstName
	}
	if v.LastName {
		out["last_name"] = p.LastName
	}
	if v.MobileNo {
		out["mobile_no"] = p.MobileNo
	}
	if v.Address {
		out["address"] = p.Address
	}
	if v.Email {
		out["email_id"] = p.Email
	}
	if v.BloodGroup {
		out["blood_grp"] = p.BloodGroup
	}
	if v.CompanyName {
		out["company_name"] = p.CompanyName
	}
	if v.Description {
		out["description"] = p.Description
	}
	return out
}

// QRCode mirrors the `qr_dtls` table.  ProfileID is nil while the code is
// unbound; binding sets it exactly once and no exposed operation clears or
// replaces it afterwards.
type QRCode struct {
	ID         string
	ProfileID  *string
	Visibility Visibility
	IsActive   bool
	CreatedAt  time.Time
	CreatedBy  *string
	UpdatedAt  time.Time
	UpdatedBy  *string
}

// Bound reports whether the code has been claimed by a profile.
func (q *QRCode) Bound() bool { return q.ProfileID != nil }
