package repositories

import "context"

// ObjectStore is durable object storage partitioned into namespaces (buckets).
// Put and PutFile overwrite any existing object at the key.
type ObjectStore interface {
	Put(ctx context.Context, namespace, key string, data []byte) error
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	PutFile(ctx context.Context, namespace, key, localPath string) error
}
