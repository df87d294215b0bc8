package repomanager

import (
	"path/filepath"

	"github.com/dmitrijs2005/healthkeeper/internal/filex"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/healthfiles"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/users"
)

const (
	UsersFileName      = "users.json"
	HealthDataFileName = "health_data.json"
)

// JSONRepositoryManager keeps both documents as JSON files in one data directory.
type JSONRepositoryManager struct {
	users       *users.JSONRepository
	healthFiles *healthfiles.JSONRepository
}

// NewJSONRepositoryManager creates dataDir when it is missing. The documents
// themselves are created lazily on the first write.
func NewJSONRepositoryManager(dataDir string) (*JSONRepositoryManager, error) {
	dir, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, err
	}
	return &JSONRepositoryManager{
		users:       users.NewJSONRepository(filepath.Join(dir, UsersFileName)),
		healthFiles: healthfiles.NewJSONRepository(filepath.Join(dir, HealthDataFileName)),
	}, nil
}

func (m *JSONRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *JSONRepositoryManager) HealthFiles() healthfiles.Repository {
	return m.healthFiles
}

func (m *JSONRepositoryManager) Close() error {
	return nil
}
