// Package blobstore keeps the raw bytes of uploaded health files. Records in
// the ledger refer to blobs by their stored file name.
package blobstore

import (
	"context"
	"io"
)

// Store is implemented by the local upload directory and by S3.
//
// Create fails with common.ErrorAlreadyExists when the name is taken and never
// overwrites an existing blob. Open and Remove report common.ErrorNotFound for
// unknown names.
type Store interface {
	Create(ctx context.Context, name string, r io.Reader) (int64, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, name string) error
}
