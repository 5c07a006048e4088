package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/regattadev/boatrace/internal/model"
	"github.com/regattadev/boatrace/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	accounts      map[model.UserID]*model.Account
	credentials   map[model.UserID]*model.Credentials
	usernameIndex map[string]model.UserID
	races         map[model.RaceID]*model.Race
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts:      make(map[model.UserID]*model.Account),
		credentials:   make(map[model.UserID]*model.Credentials),
		usernameIndex: make(map[string]model.UserID),
		races:         make(map[model.RaceID]*model.Race),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = account
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.UserID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return account, nil
}

func (s *Storage) DeleteAccount(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
	return nil
}

// Credentials operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[creds.UserID] = creds
	s.usernameIndex[creds.Username] = creds.UserID
	return nil
}

func (s *Storage) GetCredentials(ctx context.Context, userID model.UserID) (*model.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creds, ok := s.credentials[userID]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return creds, nil
}

func (s *Storage) GetCredentialsByUsername(ctx context.Context, username string) (*model.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	creds, ok := s.credentials[userID]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return creds, nil
}

// Race snapshot operations

func (s *Storage) SaveRace(ctx context.Context, race *model.Race) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.races[race.ID] = race
	return nil
}

func (s *Storage) GetRace(ctx context.Context, id model.RaceID) (*model.Race, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	race, ok := s.races[id]
	if !ok {
		return nil, model.ErrRaceNotFound
	}
	return race, nil
}

func (s *Storage) DeleteRace(ctx context.Context, id model.RaceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.races, id)
	return nil
}

func (s *Storage) RaceExists(ctx context.Context, id model.RaceID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.races[id]
	return ok, nil
}

func (s *Storage) ListRaces(ctx context.Context) ([]*model.Race, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	races := make([]*model.Race, 0, len(s.races))
	for _, r := range s.races {
		races = append(races, r)
	}
	sort.Slice(races, func(i, j int) bool {
		return races[i].CreatedAt.After(races[j].CreatedAt)
	})
	return races, nil
}
