package store

// Store is the flat external artifact store the index cache persists to.
// Artifacts are opaque byte blobs keyed by (world, key); implementations
// must make Write all-or-nothing so a reader never observes a torn
// artifact.
type Store interface {
	Close() error
	Backend() string

	Exists(world, key string) (bool, error)
	Read(world, key string) ([]byte, error)
	Write(world, key string, data []byte) error
	Delete(world, key string) error
}
