package model

import "time"

// Profile mirrors the `user_dtls` table.  Every contact field is optional;
// a freshly registered user starts with an almost empty record that only
// carries their login email.  The schema allows several profiles per user,
// but business logic treats the oldest active row as the canonical one.
type Profile struct {
	ID          string
	UserID      string
	FirstName   *string
	LastName    *string
	MobileNo    *string
	Address     *string
	Email       *string
	BloodGroup  *string
	CompanyName *string
	Description *string
	IsActive    bool
	CreatedAt   time.Time
	CreatedBy   *string
	UpdatedAt   time.Time
	UpdatedBy   *string
}

// ProfilePatch is a partial update of a profile.  Each field is
// independently absent (leave untouched), null (clear) or set.  Plain
// *string fields cannot tell absent and null apart after JSON decoding,
// hence the OptString wrapper.
type ProfilePatch struct {
	FirstName   OptString `json:"first_name"`
	LastName    OptString `json:"last_name"`
	MobileNo    OptString `json:"mobile_no"`
	Address     OptString `json:"address"`
	Email       OptString `json:"email_id"`
	BloodGroup  OptString `json:"blood_grp"`
	CompanyName OptString `json:"company_name"`
	Description OptString `json:"description"`
}

// Apply merges the patch into the profile field by field.  It returns the
// number of fields that were present so callers can skip the write when
// the request body was empty.
func (p *ProfilePatch) Apply(dst *Profile) int {
	n := 0
	for _, f := range []struct {
		opt OptString
		dst **string
	}{
		{p.FirstName, &dst.FirstName},
		{p.LastName, &dst.LastName},
		{p.MobileNo, &dst.MobileNo},
		{p.Address, &dst.Address},
		{p.Email, &dst.Email},
		{p.BloodGroup, &dst.BloodGroup},
		{p.CompanyName, &dst.CompanyName},
		{p.Description, &dst.Description},
	} {
		if f.opt.Set {
			*f.dst = f.opt.Value
			n++
		}
	}
	return n
}
