package manager

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greasekit/greasekit/manifest"
	"github.com/greasekit/greasekit/metablock"
)

// Sync re-derives the manifest from the files on disk: every file's pattern
// declarations are reconciled, its required resources ensured, and stale
// entries purged. Per-file failures are logged and the batch continues; the
// returned bool is false when any file was skipped. Consistency comes from
// convergence on every call, not from transactions: a partial sync is
// repaired by the next one.
func (mg *Manager) Sync(ctx context.Context) (bool, error) {
	run := uuid.NewString()
	log := mg.log.With(zap.String("run", run))

	infos, err := mg.storage.List()
	if err != nil {
		return false, err
	}

	ok := true
	present := map[string]bool{}
	err = mg.store.Update(func(m *manifest.Manifest) error {
		for _, info := range infos {
			if !isScriptName(info.Name) {
				continue
			}
			present[info.Name] = true

			raw, err := mg.storage.Read(info.Name)
			if err != nil {
				log.Warn("sync: unreadable file skipped", zap.String("file", info.Name), zap.Error(err))
				ok = false
				continue
			}
			parsed, err := metablock.Parse(string(raw))
			if err != nil {
				log.Warn("sync: unparseable file skipped", zap.String("file", info.Name), zap.Error(err))
				ok = false
				continue
			}
			mg.reconcileFile(m, info.Name, parsed)
			mg.updateRequired(ctx, m, info.Name, parsed)
		}

		for _, f := range m.Purge(present) {
			if err := mg.storage.Remove(manifest.RequireDir(f)); err != nil {
				log.Warn("sync: failed to discard resource cache", zap.String("file", f), zap.Error(err))
				ok = false
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	log.Info("sync complete", zap.Int("files", len(present)), zap.Bool("clean", ok))
	return ok, nil
}
