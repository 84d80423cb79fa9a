package outbound

import "context"

// BlobStorePort is the durable object store collaborator. References are
// URIs of the form scheme://container/key.
type BlobStorePort interface {
	// Put uploads the file at localPath under key and returns its reference.
	Put(ctx context.Context, localPath string, key string) (string, error)
	// Get downloads the object referenced by ref to localPath.
	Get(ctx context.Context, ref string, localPath string) error
	// Delete removes the object referenced by ref.
	Delete(ctx context.Context, ref string) error
}
