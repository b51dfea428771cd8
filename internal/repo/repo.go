// Package repo implements storage access on top of gorm. All multi-row
// writes run inside transactions; row locking is applied on dialects that
// support it.
package repo

import (
	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// lockingSupported reports whether the dialect understands SELECT ... FOR
// UPDATE. sqlite (used by the tests) does not; there the guarded stock
// decrement alone upholds the no-oversell invariant.
func (r *GormRepo) lockingSupported(tx *gorm.DB) bool {
	return tx.Dialector.Name() == "postgres"
}
