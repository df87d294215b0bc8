// Package repomanager picks the storage backend for the user directory and the
// health-file ledger and hands out the matching repositories.
package repomanager

import (
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/healthfiles"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	HealthFiles() healthfiles.Repository
	Close() error
}
