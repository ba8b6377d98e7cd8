// Package repository implements data access for the four application
// tables over database/sql.  Sentinel errors defined here let handlers
// translate storage outcomes into HTTP statuses without inspecting
// driver-specific error strings.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist or is
// soft-deleted.  Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrAlreadyBound is returned when a bind hits a QR code that already has
// an owner.  Binding is first-claim-wins; the loser of a race gets this
// error, never a silent success.  Handlers translate it into HTTP 409.
var ErrAlreadyBound = errors.New("qr code already bound")

// ErrEmailExists is returned when an insert violates the unique email
// constraint on user_login.
var ErrEmailExists = errors.New("email already exists")
