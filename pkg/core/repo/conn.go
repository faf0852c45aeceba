package repo

import "context"

// TxHandler runs within a transaction which commits when it returns
// nil and rolls back when it returns an error.
type TxHandler func(context.Context, Tx) error

type Conn interface {
	Queryer
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn method prevents a non-Conn object to mistakenly
	// implement the Conn interface.
	IsConn()
}
