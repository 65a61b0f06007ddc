// Package manager ties storage, manifest, parser, and fetcher together into
// the operations the host layer consumes: save, trash, toggle, sync,
// install-check, and update application. The manager itself is stateless
// between calls; the persisted manifest is the only state.
package manager

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/greasekit/greasekit/errs"
	"github.com/greasekit/greasekit/internal/fetch"
	"github.com/greasekit/greasekit/internal/storage"
	"github.com/greasekit/greasekit/manifest"
	"github.com/greasekit/greasekit/metablock"
	"github.com/greasekit/greasekit/updater"
)

// MaxFilenameLength bounds derived filenames.
const MaxFilenameLength = 250

// ScriptFile is one managed file with its parsed metadata and the flags held
// outside the file itself.
type ScriptFile struct {
	Filename     string
	Type         metablock.FileType
	Content      string
	Code         string
	Block        string
	Metadata     *metablock.Metadata
	LastModified time.Time
	Disabled     bool
	CanUpdate    bool
}

// Name returns the declared @name.
func (f *ScriptFile) Name() string {
	name, _ := f.Metadata.First("name")
	return name
}

// Version returns the declared @version, empty when absent.
func (f *ScriptFile) Version() string {
	v, _ := f.Metadata.First("version")
	return v
}

// Manager exposes the core operations over injected collaborators.
type Manager struct {
	storage storage.Storage
	store   *manifest.Store
	fetch   fetch.Fetcher
	checker *updater.Checker
	log     *zap.Logger
}

// New builds a manager. A nil logger is replaced with a no-op one.
func New(st storage.Storage, store *manifest.Store, f fetch.Fetcher, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		storage: st,
		store:   store,
		fetch:   f,
		checker: updater.NewChecker(f, log),
		log:     log,
	}
}

// Store exposes the manifest store for read-side collaborators like the
// injection resolver.
func (mg *Manager) Store() *manifest.Store {
	return mg.store
}

// Files lists the managed files with parsed metadata, newest first by name.
// Files that fail to parse are logged and skipped.
func (mg *Manager) Files() ([]ScriptFile, error) {
	infos, err := mg.storage.List()
	if err != nil {
		return nil, err
	}
	m, err := mg.store.Load()
	if err != nil {
		return nil, err
	}

	var out []ScriptFile
	for _, info := range infos {
		if !isScriptName(info.Name) {
			continue
		}
		raw, err := mg.storage.Read(info.Name)
		if err != nil {
			mg.log.Warn("unreadable file skipped", zap.String("file", info.Name), zap.Error(err))
			continue
		}
		parsed, err := metablock.Parse(string(raw))
		if err != nil {
			mg.log.Warn("unparseable file skipped", zap.String("file", info.Name), zap.Error(err))
			continue
		}
		out = append(out, ScriptFile{
			Filename:     info.Name,
			Type:         parsed.Type,
			Content:      parsed.Content,
			Code:         parsed.Code,
			Block:        parsed.Block,
			Metadata:     parsed.Metadata,
			LastModified: info.LastModified,
			Disabled:     m.IsDisabled(info.Name),
			CanUpdate:    updater.CanUpdate(parsed.Metadata),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

// Toggle enables or disables a file. Action must be "enable" or "disable".
func (mg *Manager) Toggle(filename, action string) error {
	var disabled bool
	switch action {
	case "enable":
		disabled = false
	case "disable":
		disabled = true
	default:
		return errs.Newf(errs.KindValidation, "manager.Toggle", "unknown action %q", action)
	}
	if !mg.storage.Exists(filename) {
		return errs.New(errs.KindValidation, "manager.Toggle", "no such file").WithFile(filename)
	}
	return mg.store.Update(func(m *manifest.Manifest) error {
		m.SetDisabled(filename, disabled)
		return nil
	})
}

// Trash moves a file out of the save location and purges every manifest
// trace of it, discarding its cached resources.
func (mg *Manager) Trash(filename string) error {
	if err := mg.storage.Trash(filename); err != nil {
		return err
	}
	present, err := mg.presentFiles()
	if err != nil {
		return err
	}
	return mg.purge(present)
}

// presentFiles returns the authoritative set of filenames currently in the
// save location.
func (mg *Manager) presentFiles() (map[string]bool, error) {
	infos, err := mg.storage.List()
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(infos))
	for _, info := range infos {
		if isScriptName(info.Name) {
			present[info.Name] = true
		}
	}
	return present, nil
}

// purge runs manifest purge against the present set and discards the cached
// resources of removed require records.
func (mg *Manager) purge(present map[string]bool) error {
	return mg.store.Update(func(m *manifest.Manifest) error {
		for _, f := range m.Purge(present) {
			if err := mg.storage.Remove(manifest.RequireDir(f)); err != nil {
				mg.log.Warn("failed to discard resource cache", zap.String("file", f), zap.Error(err))
			}
		}
		return nil
	})
}

func isScriptName(name string) bool {
	return strings.HasSuffix(name, ".js") || strings.HasSuffix(name, ".css")
}
