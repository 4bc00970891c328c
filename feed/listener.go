package feed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGListener implements Listener over a dedicated pooled connection using
// LISTEN/NOTIFY. The connection stays checked out for the lifetime of the
// subscription and is released when the context is cancelled.
type PGListener struct {
	pool *pgxpool.Pool
}

// NewPGListener wires a listener over the given pool.
func NewPGListener(pool *pgxpool.Pool) *PGListener {
	return &PGListener{pool: pool}
}

// Listen starts LISTEN on channel and forwards notification payloads
// until ctx is cancelled or the connection breaks. There is no reconnect
// or backoff here; a broken connection closes the returned channel and
// the caller decides whether to start over.
func (l *PGListener) Listen(ctx context.Context, channel string) (<-chan []byte, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("feed: acquire listen connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("feed: listen %s: %w", channel, err)
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		defer conn.Release()

		for {
			notification, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				return // cancelled or connection lost
			}
			select {
			case out <- []byte(notification.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
