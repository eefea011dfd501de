package session

import (
	"context"
	"errors"
	"time"

	"github.com/ssshpaklevka/deliv-ad/internal/model"
)

// ErrNotFound is returned when no usable record exists for a session id.
var ErrNotFound = errors.New("session not found")

// Record is everything the console keeps for one browser: the upstream token
// pair, the stable device identity and the cached user. It is the single
// writable unit; the last writer of a record wins.
type Record struct {
	ID           string      `json:"id"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	DeviceID     string      `json:"deviceId"`
	DeviceName   string      `json:"deviceName"`
	User         *model.User `json:"user,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Store is the keyed session store the rest of the service goes through.
// A record that cannot be decoded counts as absent: implementations drop it
// and report ErrNotFound, so a corrupted user blob logs the browser out
// instead of poisoning every request.
type Store interface {
	Get(ctx context.Context, id string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id string) error
}
