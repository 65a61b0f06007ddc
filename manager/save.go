package manager

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/greasekit/greasekit/errs"
	"github.com/greasekit/greasekit/manifest"
	"github.com/greasekit/greasekit/metablock"
	"github.com/greasekit/greasekit/updater"
)

// SaveResult reports what a save produced.
type SaveResult struct {
	File    ScriptFile
	Renamed bool   // the declared name changed, so the filename changed
	OldName string // previous filename when Renamed
}

// Save parses and persists script content. The filename derives from the
// sanitized @name plus the framing's extension; when oldFilename is given and
// the derived filename differs, the old file is trashed and the manifest
// converges on the new name. overwrite permits replacing an existing
// unrelated file of the same name.
func (mg *Manager) Save(ctx context.Context, content, oldFilename string, overwrite bool) (*SaveResult, error) {
	parsed, err := metablock.Parse(content)
	if err != nil {
		return nil, err
	}

	name, _ := parsed.Metadata.First("name")
	filename := manifest.Sanitize(name) + "." + string(parsed.Type)
	if len(filename) > MaxFilenameLength {
		return nil, errs.Newf(errs.KindValidation, "manager.Save", "derived filename exceeds %d characters", MaxFilenameLength).WithFile(filename)
	}
	if filename != oldFilename && mg.storage.Exists(filename) && !overwrite {
		return nil, errs.New(errs.KindValidation, "manager.Save", "a file with this name already exists").WithFile(filename)
	}

	if err := mg.storage.Write(filename, []byte(content)); err != nil {
		return nil, err
	}

	renamed := oldFilename != "" && oldFilename != filename
	if renamed {
		if err := mg.storage.Trash(oldFilename); err != nil {
			return nil, err
		}
	}

	err = mg.store.Update(func(m *manifest.Manifest) error {
		mg.reconcileFile(m, filename, parsed)
		mg.updateRequired(ctx, m, filename, parsed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// a rename leaves the old filename behind in the indices; purge sweeps it
	if renamed {
		present, err := mg.presentFiles()
		if err != nil {
			return nil, err
		}
		if err := mg.purge(present); err != nil {
			return nil, err
		}
	}

	m, err := mg.store.Load()
	if err != nil {
		return nil, err
	}
	result := &SaveResult{
		File: ScriptFile{
			Filename:  filename,
			Type:      parsed.Type,
			Content:   parsed.Content,
			Code:      parsed.Code,
			Block:     parsed.Block,
			Metadata:  parsed.Metadata,
			Disabled:  m.IsDisabled(filename),
			CanUpdate: updater.CanUpdate(parsed.Metadata),
		},
		Renamed: renamed,
	}
	if renamed {
		result.OldName = oldFilename
	}
	return result, nil
}

// reconcileFile applies the single reconcile operation to each of the four
// pattern indices.
func (mg *Manager) reconcileFile(m *manifest.Manifest, filename string, parsed *metablock.Parsed) {
	m.Match = manifest.Reconcile(m.Match, filename, parsed.Metadata.Get("match"))
	m.ExcludeMatch = manifest.Reconcile(m.ExcludeMatch, filename, parsed.Metadata.Get("exclude-match"))
	m.Include = manifest.Reconcile(m.Include, filename, parsed.Metadata.Get("include"))
	m.Exclude = manifest.Reconcile(m.Exclude, filename, parsed.Metadata.Get("exclude"))
}

// updateRequired ensures a cached copy of each declared dependency whose path
// suffix matches the file's type, then records the sanitized resource names.
// Fetch-once: resources already cached are not re-fetched. A file with no
// matching declarations loses its cache directory.
func (mg *Manager) updateRequired(ctx context.Context, m *manifest.Manifest, filename string, parsed *metablock.Parsed) {
	ext := "." + string(parsed.Type)
	var declared []string
	for _, u := range parsed.Metadata.Get("require") {
		if strings.HasSuffix(strings.ToLower(u), ext) {
			declared = append(declared, u)
		}
	}

	if len(declared) == 0 {
		if mg.storage.Exists(manifest.RequireDir(filename)) {
			if err := mg.storage.Remove(manifest.RequireDir(filename)); err != nil {
				mg.log.Warn("failed to discard resource cache", zap.String("file", filename), zap.Error(err))
			}
		}
		m.SetRequire(filename, nil)
		return
	}

	var resources []string
	for _, u := range declared {
		resource := manifest.Sanitize(u)
		path := manifest.RequirePath(filename, resource)
		if !mg.storage.Exists(path) {
			body, err := mg.fetch.Fetch(ctx, u)
			if err != nil {
				mg.log.Warn("required resource fetch failed",
					zap.String("file", filename), zap.String("url", u), zap.Error(err))
				continue
			}
			if err := mg.storage.MkdirAll(manifest.RequireDir(filename)); err != nil {
				mg.log.Warn("resource cache dir", zap.String("file", filename), zap.Error(err))
				continue
			}
			if err := mg.storage.Write(path, body); err != nil {
				mg.log.Warn("resource cache write", zap.String("file", filename), zap.Error(err))
				continue
			}
		}
		resources = append(resources, resource)
	}
	m.SetRequire(filename, resources)
}
