package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"whalesx/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	userKeyPrefix = "user:"
	userSetKey    = "users"

	referralFee = 1.0
)

// User is one registered bot user.
type User struct {
	UserID     int64   `json:"userId"`
	Email      string  `json:"email"`
	Referrals  []int64 `json:"referrals"`
	Position   int64   `json:"position"`
	FeesEarned float64 `json:"feesEarned"`
}

// UserStore persists registered users in Redis. Each user is a JSON document
// keyed by ID, with a companion set for counting and membership checks.
type UserStore struct {
	logger *zap.Logger
	rdb    *redis.Client
}

// NewUserStore connects a user store to Redis.
func NewUserStore(logger *zap.Logger, cfg *config.Config) *UserStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserStore{
		logger: logger,
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}),
	}
}

// Get loads a user by ID. Returns (nil, nil) when the user does not exist.
func (s *UserStore) Get(ctx context.Context, userID int64) (*User, error) {
	data, err := s.rdb.Get(ctx, userKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %d: %w", userID, err)
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decoding user %d: %w", userID, err)
	}
	return &u, nil
}

// Save writes the user document and records membership.
func (s *UserStore) Save(ctx context.Context, u *User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding user %d: %w", u.UserID, err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, userKey(u.UserID), data, 0)
	pipe.SAdd(ctx, userSetKey, u.UserID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving user %d: %w", u.UserID, err)
	}
	return nil
}

// Register creates the user if absent and returns it. An already-registered
// user is returned unchanged.
func (s *UserStore) Register(ctx context.Context, userID int64) (*User, error) {
	existing, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	u := &User{UserID: userID}
	if err := s.Save(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("registered new user", zap.Int64("userId", userID))
	return u, nil
}

// Count returns the number of registered users.
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	n, err := s.rdb.SCard(ctx, userSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

// AddReferral credits a referrer with a new referral and its fee. Repeat
// referrals of the same user are ignored.
func (s *UserStore) AddReferral(ctx context.Context, referrerID, referredID int64) error {
	referrer, err := s.Get(ctx, referrerID)
	if err != nil {
		return err
	}
	if referrer == nil {
		return fmt.Errorf("referrer %d not registered", referrerID)
	}

	if !appendReferral(referrer, referredID) {
		return nil
	}
	referrer.FeesEarned += referralFee

	return s.Save(ctx, referrer)
}

// Close releases the Redis connection.
func (s *UserStore) Close() error {
	return s.rdb.Close()
}

// appendReferral adds the referred ID if not already present and reports
// whether the list changed.
func appendReferral(u *User, referredID int64) bool {
	for _, id := range u.Referrals {
		if id == referredID {
			return false
		}
	}
	u.Referrals = append(u.Referrals, referredID)
	return true
}

func userKey(userID int64) string {
	return fmt.Sprintf("%s%d", userKeyPrefix, userID)
}
