package mock

import (
	"context"

	"github.com/docpack/docpack"
)

var _ docpack.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is a mock implementation of docpack.ChunkStore.
type ChunkStore struct {
	SaveChunkFn    func(ctx context.Context, chunk *docpack.Chunk) error
	SaveManifestFn func(ctx context.Context, m *docpack.Manifest) error
	CommitFn       func() error
	AbortFn        func() error
}

func (s *ChunkStore) SaveChunk(ctx context.Context, chunk *docpack.Chunk) error {
	return s.SaveChunkFn(ctx, chunk)
}

func (s *ChunkStore) SaveManifest(ctx context.Context, m *docpack.Manifest) error {
	return s.SaveManifestFn(ctx, m)
}

func (s *ChunkStore) Commit() error {
	if s.CommitFn == nil {
		return nil
	}
	return s.CommitFn()
}

func (s *ChunkStore) Abort() error {
	if s.AbortFn == nil {
		return nil
	}
	return s.AbortFn()
}
