// Package templates holds the embedded scaffolding used by project_init:
// the default config file, the backlog seed, and the default task
// template folder contents.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed files
var filesFS embed.FS

// configTemplate is the name of the rendered config file template.
const configTemplate = "config.yaml.tmpl"

// backlogSeed is the name of the initial backlog index file.
const backlogSeed = "backlog.yaml"

// Renderer renders the parameterized scaffolding files.
type Renderer struct {
	config *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	data, err := filesFS.ReadFile("files/" + configTemplate)
	if err != nil {
		return nil, fmt.Errorf("reading embedded config template: %w", err)
	}
	tmpl, err := template.New(configTemplate).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing config template: %w", err)
	}
	return &Renderer{config: tmpl}, nil
}

// RenderConfig renders config.yaml content for the given settings.
func (r *Renderer) RenderConfig(projectType string, tddMode bool) (string, error) {
	var b strings.Builder
	err := r.config.Execute(&b, struct {
		ProjectType string
		TDDMode     bool
	}{ProjectType: projectType, TDDMode: tddMode})
	if err != nil {
		return "", fmt.Errorf("rendering config.yaml: %w", err)
	}
	return b.String(), nil
}

// BacklogSeed returns the initial backlog index content.
func BacklogSeed() ([]byte, error) {
	data, err := filesFS.ReadFile("files/" + backlogSeed)
	if err != nil {
		return nil, fmt.Errorf("reading embedded backlog seed: %w", err)
	}
	return data, nil
}

// TemplateFolderFiles returns the default task-template folder contents,
// keyed by filename. These are the TASK-000 placeholder documents the
// task store copies and renames on create.
func TemplateFolderFiles() (map[string][]byte, error) {
	entries, err := fs.ReadDir(filesFS, "files")
	if err != nil {
		return nil, fmt.Errorf("reading embedded files: %w", err)
	}

	out := make(map[string][]byte)
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "TASK-000") {
			continue
		}
		data, err := filesFS.ReadFile("files/" + name)
		if err != nil {
			return nil, fmt.Errorf("reading embedded %s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}
