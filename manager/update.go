package manager

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greasekit/greasekit/errs"
	"github.com/greasekit/greasekit/manifest"
	"github.com/greasekit/greasekit/metablock"
	"github.com/greasekit/greasekit/updater"
)

// CheckUpdates runs an update check across every updateable file. Network
// failures skip the file and clear the ok flag; a parse failure on fetched
// content aborts the batch.
func (mg *Manager) CheckUpdates(ctx context.Context) ([]updater.Update, bool, error) {
	run := uuid.NewString()
	files, err := mg.Files()
	if err != nil {
		return nil, false, err
	}

	targets := make([]updater.Target, 0, len(files))
	for _, f := range files {
		if !f.CanUpdate {
			continue
		}
		target, err := mg.target(f)
		if err != nil {
			mg.log.Warn("update target skipped", zap.String("run", run), zap.String("file", f.Filename), zap.Error(err))
			continue
		}
		targets = append(targets, target)
	}

	updates, ok, err := mg.checker.CheckAll(ctx, targets)
	if err != nil {
		return updates, false, err
	}
	mg.log.Info("update check complete",
		zap.String("run", run),
		zap.Int("checked", len(targets)),
		zap.Int("updates", len(updates)),
		zap.Bool("clean", ok))
	return updates, ok, nil
}

// CheckUpdate checks a single file by name.
func (mg *Manager) CheckUpdate(ctx context.Context, filename string) (*updater.Update, error) {
	files, err := mg.Files()
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.Filename != filename {
			continue
		}
		target, err := mg.target(f)
		if err != nil {
			return nil, err
		}
		return mg.checker.Check(ctx, target)
	}
	return nil, errs.New(errs.KindValidation, "manager.CheckUpdate", "no such file").WithFile(filename)
}

// target rebuilds the parse result an update check needs from a listed file.
func (mg *Manager) target(f ScriptFile) (updater.Target, error) {
	parsed, err := metablock.Parse(f.Content)
	if err != nil {
		return updater.Target{}, err
	}
	return updater.Target{Filename: f.Filename, Parsed: parsed}, nil
}

// ApplyUpdate overwrites the file's content with the fetched replacement
// and converges the manifest on the new declarations. The filename never
// changes, even when the remote declares a different name.
func (mg *Manager) ApplyUpdate(ctx context.Context, u updater.Update) error {
	parsed, err := metablock.Parse(string(u.Content))
	if err != nil {
		return err
	}
	if err := mg.storage.Write(u.Filename, u.Content); err != nil {
		return err
	}
	err = mg.store.Update(func(m *manifest.Manifest) error {
		mg.reconcileFile(m, u.Filename, parsed)
		mg.updateRequired(ctx, m, u.Filename, parsed)
		return nil
	})
	if err != nil {
		return err
	}
	mg.log.Info("update applied",
		zap.String("file", u.Filename),
		zap.String("from", u.CurrentVersion),
		zap.String("to", u.RemoteVersion))
	return nil
}
