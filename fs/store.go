// Package fs provides file-based storage for chunk artifacts.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/docpack/docpack"
)

// Ensure Store implements docpack.ChunkStore at compile time.
var _ docpack.ChunkStore = (*Store)(nil)

// ManifestFile is the manifest's file name inside the output directory.
const ManifestFile = "manifest.json"

// Store implements docpack.ChunkStore with atomic update semantics.
// Artifacts are staged in a temporary directory, then moved atomically
// into place on Commit.
type Store struct {
	baseDir string
	name    string
}

// NewStore creates a new Store.
// baseDir is the parent directory, name is the output directory name.
// Artifacts are staged in baseDir/name.tmp and moved to baseDir/name on Commit.
func NewStore(baseDir, name string) *Store {
	return &Store{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *Store) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *Store) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// SaveChunk stages one chunk artifact.
func (s *Store) SaveChunk(ctx context.Context, chunk *docpack.Chunk) error {
	if err := chunk.Validate(); err != nil {
		return err
	}

	fullPath, err := chunkPath(s.tempDir(), chunk.ID)
	if err != nil {
		return err
	}
	return writeJSON(fullPath, chunk)
}

// SaveManifest stages the manifest.
func (s *Store) SaveManifest(ctx context.Context, m *docpack.Manifest) error {
	return writeJSON(filepath.Join(s.tempDir(), ManifestFile), m)
}

// chunkPath resolves a chunk ID to its artifact path under dir. IDs that
// would escape dir are rejected.
func chunkPath(dir, id string) (string, error) {
	fullPath := filepath.Join(dir, docpack.ChunkFile(id))
	rel, err := filepath.Rel(dir, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", docpack.Errorf(docpack.EINVALID, "chunk ID %q: path traversal not allowed", id)
	}
	return fullPath, nil
}

// writeJSON writes v as indented JSON so artifacts stay greppable.
func writeJSON(fullPath string, v any) error {
	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(fullPath, data, 0644)
}

// Commit atomically replaces the previous output with the staged artifacts.
func (s *Store) Commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// Atomically rename temp to final
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the staged artifacts.
func (s *Store) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// ReadChunk loads a chunk artifact from a committed output directory.
func ReadChunk(outDir, id string) (*docpack.Chunk, error) {
	fullPath, err := chunkPath(outDir, id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docpack.Errorf(docpack.ENOTFOUND, "chunk %q not found", id)
		}
		return nil, err
	}

	var chunk docpack.Chunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return nil, docpack.Errorf(docpack.EINTERNAL, "decoding chunk %q: %v", id, err)
	}
	return &chunk, nil
}

// ReadManifest loads the manifest from a committed output directory.
func ReadManifest(outDir string) (*docpack.Manifest, error) {
	data, err := os.ReadFile(filepath.Join(outDir, ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docpack.Errorf(docpack.ENOTFOUND, "no manifest found in %q", outDir)
		}
		return nil, err
	}

	var m docpack.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, docpack.Errorf(docpack.EINTERNAL, "decoding manifest: %v", err)
	}
	return &m, nil
}
