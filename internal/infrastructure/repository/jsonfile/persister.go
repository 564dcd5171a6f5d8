// Package jsonfile persists the roster as a single db.json style document.
package jsonfile

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/frogcrew/internal/domain/roster"
	"github.com/riskibarqy/frogcrew/internal/infrastructure/repository/snapshot"
)

type Persister struct {
	path string
}

func NewPersister(path string) *Persister {
	return &Persister{path: path}
}

func (p *Persister) Load(ctx context.Context) (roster.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return roster.Snapshot{}, false, err
	}

	raw, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return roster.Snapshot{}, false, nil
	}
	if err != nil {
		return roster.Snapshot{}, false, crerr.Wrapf(err, "read %s", p.path)
	}
	if len(raw) == 0 {
		return roster.Snapshot{}, false, nil
	}

	snap, err := snapshot.Unmarshal(raw)
	if err != nil {
		return roster.Snapshot{}, false, crerr.Wrapf(err, "load %s", p.path)
	}
	return snap, true, nil
}

// Save writes to a temp file in the same directory and renames it over the
// target, so readers never see a partial document.
func (p *Persister) Save(ctx context.Context, snap roster.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := snapshot.Marshal(snap)
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return crerr.Wrapf(err, "create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return crerr.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrapf(err, "close %s", tmpName)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		return crerr.Wrapf(err, "replace %s", p.path)
	}
	return nil
}
