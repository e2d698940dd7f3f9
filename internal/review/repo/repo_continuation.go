package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/draftpad/draftpad/internal/review/consts"
)

// ErrContinuationNotFound is returned when a continuation id is unknown,
// expired, or already claimed.
var ErrContinuationNotFound = errors.New("continuation not found")

// Continuation is the persisted cross-navigation intent: where to resume
// after the authentication detour and which invitation to resume with.
type Continuation struct {
	Target string `json:"target"`
	Token  string `json:"token"`
}

type IContinuationRepository interface {
	Put(ctx context.Context, state string, cont Continuation, ttl time.Duration) error
	// Claim consumes a continuation exactly once. The read clears the
	// entry atomically; a second claim for the same state fails.
	Claim(ctx context.Context, state string) (*Continuation, error)
}

type ContinuationRepo struct {
	rdb *redis.Client
}

func NewContinuationRepo(rdb *redis.Client) IContinuationRepository {
	return &ContinuationRepo{rdb: rdb}
}

func (r *ContinuationRepo) Put(ctx context.Context, state string, cont Continuation, ttl time.Duration) error {
	payload, err := json.Marshal(cont)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, consts.ContinuationKeyPrefix+state, payload, ttl).Err()
}

func (r *ContinuationRepo) Claim(ctx context.Context, state string) (*Continuation, error) {
	payload, err := r.rdb.GetDel(ctx, consts.ContinuationKeyPrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrContinuationNotFound
	}
	if err != nil {
		return nil, err
	}
	var cont Continuation
	if err := json.Unmarshal([]byte(payload), &cont); err != nil {
		return nil, err
	}
	return &cont, nil
}
