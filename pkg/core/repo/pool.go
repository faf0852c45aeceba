package repo

import "context"

// ConnHandler runs with a borrowed connection. The connection is only
// valid until the handler returns.
type ConnHandler func(context.Context, Conn) error

// Pool hands out database connections to the request and participant
// repositories.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
	Close() error
}
