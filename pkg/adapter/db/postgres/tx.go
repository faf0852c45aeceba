// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"github.com/smartplate/smartplate/pkg/core/repo"
	"gorm.io/gorm"
)

// Tx represents a database transaction. It is unsafe to be used
// concurrently and executes one SQL statement at a time through the
// Queryer interface methods. A READ-COMMITTED transaction is expected
// from a PostgreSQL DBMS server, which suffices for the compare-and-set
// status transitions of the requests table. Tx embeds the *gorm.DB,
// hence, may be used like GORM from within the repository packages
// (which can depend on frameworks).
type Tx struct {
	*gorm.DB
}

// Exec runs SQL statements with given args given ctx context.
// Number of affected rows and possible errors will be returned.
// If args is provided, sql will be prepared and args will be passed
// separately to the DBMS in order to prevent SQL injection; in that
// case sql must contain exactly one statement. In absence of args,
// sql may contain multiple semi-colon separated statements too.
// Parameters should be numbered like $1, $2, etc. while the ? and
// @name placeholders are supported via the GORM framework.
func (tx *Tx) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tt := tx.DB.WithContext(ctx).Exec(sql, args...)
	if err := tt.Error; err != nil {
		return 0, err
	}
	return tt.RowsAffected, nil
}

// Query runs one SQL statement with given args given ctx context.
// The result set is returned as the Rows interface. Query or Exec may
// not be called again until the Rows is closed since only one ongoing
// statement may be used on each connection.
func (tx *Tx) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	rows, err := tx.DB.WithContext(ctx).Raw(sql, args...).Rows()
	return rowsAdapter{rows}, err
}

// IsTx method prevents a non-Tx object (such as a Conn) to
// mistakenly implement the Tx interface.
func (tx *Tx) IsTx() {
}

// GORM returns the embedded *gorm.DB instance, configuring it
// to operate on the given ctx context (in a gorm.Session).
func (tx *Tx) GORM(ctx context.Context) *gorm.DB {
	return tx.DB.WithContext(ctx)
}
