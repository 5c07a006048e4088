package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/regattadev/boatrace/internal/model"
	"github.com/regattadev/boatrace/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	// Apply TTL only for guest accounts
	var ttl time.Duration
	if account.IsGuest {
		ttl = s.cfg.GuestAccountTTL
	}

	return s.client.Set(ctx, accountKey(account.ID), data, ttl).Err()
}

func (s *Storage) GetAccount(ctx context.Context, id model.UserID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) DeleteAccount(ctx context.Context, id model.UserID) error {
	return s.client.Del(ctx, accountKey(id)).Err()
}

// Credentials operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, credentialsKey(creds.UserID), data, 0) // No TTL
	pipe.Set(ctx, usernameIndexKey(creds.Username), string(creds.UserID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCredentials(ctx context.Context, userID model.UserID) (*model.Credentials, error) {
	data, err := s.client.Get(ctx, credentialsKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var creds model.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (s *Storage) GetCredentialsByUsername(ctx context.Context, username string) (*model.Credentials, error) {
	userIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetCredentials(ctx, model.UserID(userIDStr))
}

// Race snapshot operations

func (s *Storage) SaveRace(ctx context.Context, race *model.Race) error {
	data, err := json.Marshal(race)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, raceKey(race.ID), data, s.cfg.RaceTTL)
	pipe.ZAdd(ctx, raceIndexKey(), redis.Z{
		Score:  float64(race.CreatedAt.UnixNano()),
		Member: string(race.ID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRace(ctx context.Context, id model.RaceID) (*model.Race, error) {
	data, err := s.client.Get(ctx, raceKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRaceNotFound
		}
		return nil, err
	}

	var race model.Race
	if err := json.Unmarshal(data, &race); err != nil {
		return nil, err
	}
	return &race, nil
}

func (s *Storage) DeleteRace(ctx context.Context, id model.RaceID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, raceKey(id))
	pipe.ZRem(ctx, raceIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) RaceExists(ctx context.Context, id model.RaceID) (bool, error) {
	n, err := s.client.Exists(ctx, raceKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) ListRaces(ctx context.Context) ([]*model.Race, error) {
	ids, err := s.client.ZRevRange(ctx, raceIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	races := make([]*model.Race, 0, len(ids))
	for _, id := range ids {
		race, err := s.GetRace(ctx, model.RaceID(id))
		if err != nil {
			// Snapshot may have expired while still indexed
			if errors.Is(err, model.ErrRaceNotFound) {
				continue
			}
			return nil, err
		}
		races = append(races, race)
	}
	return races, nil
}
