package updater

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/greasekit/greasekit/errs"
	"github.com/greasekit/greasekit/internal/fetch"
	"github.com/greasekit/greasekit/metablock"
)

// Target is one file eligible for an update check.
type Target struct {
	Filename string
	Parsed   *metablock.Parsed
}

// CanUpdate reports whether the metadata declares both a version and an
// update URL, the precondition for any check.
func CanUpdate(meta *metablock.Metadata) bool {
	_, hasVersion := meta.First("version")
	_, hasURL := meta.First("updateURL")
	return hasVersion && hasURL
}

// Update describes a newer remote version and carries the replacement
// content. The filename never changes on update.
type Update struct {
	Filename       string
	Name           string
	CurrentVersion string
	RemoteVersion  string
	Content        []byte
}

// Checker performs update checks through the fetch collaborator.
type Checker struct {
	fetch fetch.Fetcher
	log   *zap.Logger
}

// NewChecker returns a checker. A nil logger is replaced with a no-op one.
func NewChecker(f fetch.Fetcher, log *zap.Logger) *Checker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{fetch: f, log: log}
}

// Check determines whether a newer remote version exists for one file. It
// returns (nil, nil) when the file is up to date. Fetch or parse failure
// aborts only this file's check.
func (c *Checker) Check(ctx context.Context, target Target) (*Update, error) {
	meta := target.Parsed.Metadata
	version, _ := meta.First("version")
	updateURL, hasURL := meta.First("updateURL")
	if version == "" || !hasURL {
		return nil, errs.New(errs.KindValidation, "updater.Check", "file declares no version or update url").WithFile(target.Filename)
	}

	ext := "." + string(target.Parsed.Type)
	if !strings.HasSuffix(strings.ToLower(updateURL), ext) {
		return nil, errs.Newf(errs.KindValidation, "updater.Check", "update url does not share extension %s", ext).WithFile(target.Filename)
	}

	remoteRaw, err := c.fetch.Fetch(ctx, updateURL)
	if err != nil {
		return nil, err
	}
	remote, err := metablock.Parse(string(remoteRaw))
	if err != nil {
		return nil, err
	}
	remoteVersion, ok := remote.Metadata.First("version")
	if !ok {
		return nil, errs.New(errs.KindParse, "updater.Check", "remote metadata has no version").WithFile(target.Filename)
	}

	if !IsNewer(version, remoteVersion) {
		return nil, nil
	}

	downloadURL, ok := meta.First("downloadURL")
	if !ok {
		downloadURL = updateURL
	}
	content, err := c.fetch.Fetch(ctx, downloadURL)
	if err != nil {
		return nil, err
	}
	if _, err := metablock.Parse(string(content)); err != nil {
		return nil, err
	}

	name, _ := meta.First("name")
	return &Update{
		Filename:       target.Filename,
		Name:           name,
		CurrentVersion: version,
		RemoteVersion:  remoteVersion,
		Content:        content,
	}, nil
}

// CheckAll checks every target. Network failures skip the file and clear the
// ok flag; a parse failure on fetched content fails the whole batch, since at
// that point "no update" can no longer be distinguished from "could not
// determine".
func (c *Checker) CheckAll(ctx context.Context, targets []Target) ([]Update, bool, error) {
	var updates []Update
	ok := true
	for _, t := range targets {
		if !CanUpdate(t.Parsed.Metadata) {
			continue
		}
		u, err := c.Check(ctx, t)
		if err != nil {
			if errs.IsKind(err, errs.KindParse) {
				return updates, false, err
			}
			c.log.Warn("update check failed",
				zap.String("file", t.Filename),
				zap.Error(err))
			ok = false
			continue
		}
		if u != nil {
			updates = append(updates, *u)
		}
	}
	return updates, ok, nil
}
