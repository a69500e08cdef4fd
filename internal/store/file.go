package store

import (
	"context"

	"github.com/lox/undercover/internal/fileutil"
	"github.com/lox/undercover/internal/game"
)

// FileStore writes the session as a JSON document. Writes replace the file
// atomically.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(context.Context) (*game.Session, error) {
	data, ok, err := fileutil.ReadFileIfExists(f.path)
	if err != nil || !ok {
		return nil, err
	}
	return decode(data)
}

func (f *FileStore) Save(_ context.Context, s game.Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(f.path, data, 0o600)
}

func (f *FileStore) Clear(context.Context) error {
	return fileutil.RemoveIfExists(f.path)
}

func (f *FileStore) Close() error { return nil }
