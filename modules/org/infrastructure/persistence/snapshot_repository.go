package persistence

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	gerrors "github.com/go-faster/errors"

	"github.com/treeline-hq/treeline/modules/org/domain/orgtree"
)

// SnapshotSchemaVersion tags the on-disk portfolio snapshot format.
const SnapshotSchemaVersion = "org_snapshot.v1"

// Snapshot is the JSON file the CLI round-trips a portfolio through. The
// engines never touch storage; this repository is the only persistence
// surface.
type Snapshot struct {
	SchemaVersion string            `json:"schema_version"`
	Portfolio     orgtree.Portfolio `json:"portfolio"`
}

type SnapshotRepository struct{}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

func (r *SnapshotRepository) Load(path string) (*orgtree.Portfolio, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, gerrors.Wrapf(err, "read snapshot %s", path)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, gerrors.Wrapf(err, "decode snapshot %s", path)
	}
	if snap.SchemaVersion != SnapshotSchemaVersion {
		return nil, gerrors.Errorf("unsupported snapshot schema %q (want %s)", snap.SchemaVersion, SnapshotSchemaVersion)
	}
	return &snap.Portfolio, nil
}

func (r *SnapshotRepository) Save(path string, p *orgtree.Portfolio) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return gerrors.Wrapf(err, "mkdir for %s", path)
	}
	b, err := json.MarshalIndent(Snapshot{SchemaVersion: SnapshotSchemaVersion, Portfolio: *p}, "", "  ")
	if err != nil {
		return gerrors.Wrap(err, "marshal snapshot")
	}
	b = append(b, '\n')
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return gerrors.Wrapf(err, "write snapshot %s", path)
	}
	return nil
}
