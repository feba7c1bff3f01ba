package ports

import (
	"context"
	"time"
)

// Transactor runs fn atomically. Repository calls made with the context
// passed to fn join the transaction. fn may be invoked more than once when
// the store aborts on a serialization conflict, so it must not keep state
// read in a previous attempt.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type Clock interface {
	Now() time.Time
}
