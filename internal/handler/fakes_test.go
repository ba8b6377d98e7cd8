package handler_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/kashmirakothariai/Foundee/internal/model"
	"github.com/kashmirakothariai/Foundee/internal/queue"
	"github.com/kashmirakothariai/Foundee/internal/repository"
)

// In-memory store fakes backing the handler tests.  They enforce the
// same contracts as the SQL repositories: sentinel errors, canonical
// profile selection, and first-claim-wins binding.

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]model.User // by id

	createErr error
}

func newFakeUsers() *fakeUsers { return &fakeUsers{users: map[string]model.User{}} }

func (f *fakeUsers) add(u model.User) model.User {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	u.IsActive = true
	f.mu.Lock()
	f.users[u.ID] = u
	f.mu.Unlock()
	return u
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUsers) CreateWithProfile(_ context.Context, name, email string, hash *string, role string) (model.User, error) {
	if f.createErr != nil {
		return model.User{}, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	u := model.User{ID: uuid.NewString(), Name: name, Email: email, PasswordHash: hash, Role: role, IsActive: true}
	f.users[u.ID] = u
	return u, nil
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles []model.Profile // insertion order doubles as crt_dt order
}

func (f *fakeProfiles) add(p model.Profile) model.Profile {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.IsActive = true
	f.mu.Lock()
	f.profiles = append(f.profiles, p)
	f.mu.Unlock()
	return p
}

func (f *fakeProfiles) GetCanonicalByUser(_ context.Context, userID string) (model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.UserID == userID && p.IsActive {
			return p, nil
		}
	}
	return model.Profile{}, repository.ErrNotFound
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Profile{}, repository.ErrNotFound
}

func (f *fakeProfiles) Update(_ context.Context, p *model.Profile, actorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.profiles {
		if f.profiles[i].ID == p.ID {
			p.UpdatedBy = &actorID
			f.profiles[i] = *p
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeQRs struct {
	mu       sync.Mutex
	codes    map[string]model.QRCode
	profiles *fakeProfiles
}

func newFakeQRs(profiles *fakeProfiles) *fakeQRs {
	return &fakeQRs{codes: map[string]model.QRCode{}, profiles: profiles}
}

func (f *fakeQRs) add(q model.QRCode) model.QRCode {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	f.mu.Lock()
	f.codes[q.ID] = q
	f.mu.Unlock()
	return q
}

func (f *fakeQRs) Create(_ context.Context, profileID *string, vis model.Visibility, creatorID string) (model.QRCode, error) {
	q := model.QRCode{ID: uuid.NewString(), ProfileID: profileID, Visibility: vis, IsActive: true, CreatedBy: &creatorID}
	f.mu.Lock()
	f.codes[q.ID] = q
	f.mu.Unlock()
	return q, nil
}

func (f *fakeQRs) GetActiveByID(_ context.Context, id string) (model.QRCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q, ok := f.codes[id]; ok && q.IsActive {
		return q, nil
	}
	return model.QRCode{}, repository.ErrNotFound
}

func (f *fakeQRs) GetByID(_ context.Context, id string) (model.QRCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q, ok := f.codes[id]; ok {
		return q, nil
	}
	return model.QRCode{}, repository.ErrNotFound
}

func (f *fakeQRs) UpdateVisibility(_ context.Context, id string, vis model.Visibility, actorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.codes[id]
	if !ok {
		return repository.ErrNotFound
	}
	q.Visibility = vis
	q.UpdatedBy = &actorID
	f.codes[id] = q
	return nil
}

// Bind mirrors the conditional UPDATE in the SQL repository: the claim
// only succeeds while the code is still unbound.
func (f *fakeQRs) Bind(_ context.Context, id, profileID, actorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.codes[id]
	if !ok || !q.IsActive {
		return repository.ErrNotFound
	}
	if q.ProfileID != nil {
		return repository.ErrAlreadyBound
	}
	q.ProfileID = &profileID
	q.UpdatedBy = &actorID
	f.codes[id] = q
	return nil
}

func (f *fakeQRs) ListByOwner(_ context.Context, userID string) ([]model.QRCode, error) {
	owned := map[string]bool{}
	f.profiles.mu.Lock()
	for _, p := range f.profiles.profiles {
		if p.UserID == userID {
			owned[p.ID] = true
		}
	}
	f.profiles.mu.Unlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.QRCode
	for _, q := range f.codes {
		if q.IsActive && q.ProfileID != nil && owned[*q.ProfileID] {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeScans struct {
	mu     sync.Mutex
	events []model.ScanEvent

	insertErr error
}

func (f *fakeScans) Insert(_ context.Context, ev *model.ScanEvent) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	ev.ID = uuid.NewString()
	f.mu.Lock()
	f.events = append(f.events, *ev)
	f.mu.Unlock()
	return nil
}

func (f *fakeScans) CountByQR(_ context.Context, qrID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, ev := range f.events {
		if ev.QRID == qrID {
			n++
		}
	}
	return n, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.QRScannedEvent

	err error
}

func (f *fakePublisher) publish(_ context.Context, ev queue.QRScannedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.events = append(f.events, ev)
	f.mu.Unlock()
	return nil
}
