package handler

import (
	"context"

	"github.com/kashmirakothariai/Foundee/internal/model"
	"github.com/kashmirakothariai/Foundee/internal/queue"
)

// Store interfaces consumed by the handlers.  The concrete
// implementations live in internal/repository over *sql.DB; tests
// substitute in-memory fakes.

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	CreateWithProfile(ctx context.Context, name, email string, passwordHash *string, role string) (model.User, error)
}

type ProfileStore interface {
	GetCanonicalByUser(ctx context.Context, userID string) (model.Profile, error)
	GetByID(ctx context.Context, id string) (model.Profile, error)
	Update(ctx context.Context, p *model.Profile, actorID string) error
}

type QRStore interface {
	Create(ctx context.Context, profileID *string, vis model.Visibility, creatorID string) (model.QRCode, error)
	GetActiveByID(ctx context.Context, id string) (model.QRCode, error)
	GetByID(ctx context.Context, id string) (model.QRCode, error)
	UpdateVisibility(ctx context.Context, id string, vis model.Visibility, actorID string) error
	Bind(ctx context.Context, id, profileID, actorID string) error
	ListByOwner(ctx context.Context, userID string) ([]model.QRCode, error)
}

type ScanStore interface {
	Insert(ctx context.Context, ev *model.ScanEvent) error
	CountByQR(ctx context.Context, qrID string) (int64, error)
}

// AlertPublisher pushes a scan alert towards the owner.  The production
// value publishes to RabbitMQ; failures are logged by the handler and
// never surface to the scanner.
type AlertPublisher func(ctx context.Context, ev queue.QRScannedEvent) error
