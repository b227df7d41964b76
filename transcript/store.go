// Package transcript persists the durable, append-only message history of
// conversation threads. Only the user message and the final assistant reply
// of each turn are durable; intermediate tool traffic is ephemeral to the
// turn.
package transcript

import (
	"context"
	"errors"

	"github.com/careerpilot/careerpilot/core"
)

// ErrThreadNotFound is returned by implementations that distinguish unknown
// threads. A new thread with no history is not an error; History returns an
// empty slice for it.
var ErrThreadNotFound = errors.New("transcript: thread not found")

// Store persists and retrieves ordered message history per thread. Turns
// for the same thread are submitted in arrival order by the caller; the
// store itself imposes no stronger ordering guarantee.
type Store interface {
	// History returns the persisted messages of a thread, oldest first.
	// An unknown thread yields an empty history.
	History(ctx context.Context, threadID string) ([]core.Message, error)

	// Append durably adds one message to a thread on behalf of a user.
	Append(ctx context.Context, threadID, userID string, msg core.Message) error
}
