package server

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/healthkeeper/internal/server/blobstore"
	"github.com/dmitrijs2005/healthkeeper/internal/server/config"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/repomanager"
)

// OpenRepositories returns the repository manager for the configured storage.
func OpenRepositories(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.Storage {
	case config.StorageJSON:
		return repomanager.NewJSONRepositoryManager(c.DataDir)
	case config.StoragePostgres:
		return repomanager.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
	}
	return nil, fmt.Errorf("unknown storage %q", c.Storage)
}

// OpenBlobStore returns the configured store for uploaded bytes.
func OpenBlobStore(ctx context.Context, c *config.Config) (blobstore.Store, error) {
	switch c.Blob {
	case config.BlobLocal:
		return blobstore.NewLocal(c.UploadDir)
	case config.BlobS3:
		return blobstore.NewS3(ctx, blobstore.S3Config{
			User:     c.S3RootUser,
			Password: c.S3RootPassword,
			Bucket:   c.S3Bucket,
			Region:   c.S3Region,
			Endpoint: c.S3BaseEndpoint,
			Prefix:   c.S3Prefix,
		})
	}
	return nil, fmt.Errorf("unknown blob backend %q", c.Blob)
}
