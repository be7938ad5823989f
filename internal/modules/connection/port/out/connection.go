package out

import (
	"context"
	"encoding/json"
)

// Binding performs the handshake with the running host process.
type Binding interface {
	Acquire(ctx context.Context) (Host, error)
}

// Host is a session-equivalent reference returned by Acquire. Call errors
// wrap apperrors.ErrStaleReference when the target no longer exists or the
// host stopped responding, and apperrors.ErrNotSupported when the host
// version lacks the method.
type Host interface {
	Root() (ref string, kind string)
	Probe(ctx context.Context) (string, error)
	Call(ctx context.Context, target, method, argsJSON string) (json.RawMessage, error)
	Supports(ctx context.Context, target, method string) (bool, error)
	Close() error
}
