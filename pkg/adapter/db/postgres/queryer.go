package postgres

import (
	"context"

	"github.com/smartplate/smartplate/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer is the type set accepted by the generic query functions in
// the requestsrp and participantsrp packages, so the same queries run
// over a plain connection or within a transaction.
type Queryer interface {
	*Conn | *Tx

	GORM(ctx context.Context) *gorm.DB
	repo.Queryer
}
