package manager

import (
	"github.com/greasekit/greasekit/manifest"
	"github.com/greasekit/greasekit/metablock"
	"github.com/greasekit/greasekit/updater"
)

// InstallView is the parse-only preview shown before installing content.
type InstallView struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Version     string             `json:"version,omitempty"`
	Type        metablock.FileType `json:"type"`
	Filename    string             `json:"filename"`
	CanUpdate   bool               `json:"canUpdate"`
	Installed   bool               `json:"installed"`
	Matches     []string           `json:"matches,omitempty"`
	Includes    []string           `json:"includes,omitempty"`
	Grants      []string           `json:"grants,omitempty"`
}

// InstallCheck parses content without persisting anything and reports what an
// install would produce, including whether it would replace an existing file.
func (mg *Manager) InstallCheck(content string) (*InstallView, error) {
	parsed, err := metablock.Parse(content)
	if err != nil {
		return nil, err
	}

	name, _ := parsed.Metadata.First("name")
	description, _ := parsed.Metadata.First("description")
	version, _ := parsed.Metadata.First("version")
	filename := manifest.Sanitize(name) + "." + string(parsed.Type)

	return &InstallView{
		Name:        name,
		Description: description,
		Version:     version,
		Type:        parsed.Type,
		Filename:    filename,
		CanUpdate:   updater.CanUpdate(parsed.Metadata),
		Installed:   mg.storage.Exists(filename),
		Matches:     parsed.Metadata.Get("match"),
		Includes:    parsed.Metadata.Get("include"),
		Grants:      parsed.Metadata.Get("grant"),
	}, nil
}
