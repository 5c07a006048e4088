package storage

import (
	"context"

	"github.com/regattadev/boatrace/internal/model"
)

// Storage defines the interface for data persistence.
//
// Race snapshots are written best-effort by session actors; implementations
// must tolerate repeated saves of the same logical state.
type Storage interface {
	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.UserID) (*model.Account, error)
	DeleteAccount(ctx context.Context, id model.UserID) error

	// Credentials operations
	SaveCredentials(ctx context.Context, creds *model.Credentials) error
	GetCredentials(ctx context.Context, userID model.UserID) (*model.Credentials, error)
	GetCredentialsByUsername(ctx context.Context, username string) (*model.Credentials, error)

	// Race snapshot operations
	SaveRace(ctx context.Context, race *model.Race) error
	GetRace(ctx context.Context, id model.RaceID) (*model.Race, error)
	DeleteRace(ctx context.Context, id model.RaceID) error
	RaceExists(ctx context.Context, id model.RaceID) (bool, error)
	// ListRaces returns race snapshots ordered newest first
	ListRaces(ctx context.Context) ([]*model.Race, error)
}
