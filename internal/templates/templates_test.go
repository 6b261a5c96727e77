package templates

import (
	"strings"
	"testing"
)

func TestRenderConfig(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.RenderConfig("production", true)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "project_type: production") {
		t.Errorf("rendered config missing project_type:\n%s", out)
	}
	if !strings.Contains(out, "tdd_mode: true") {
		t.Errorf("rendered config missing tdd_mode:\n%s", out)
	}
}

func TestBacklogSeed(t *testing.T) {
	seed, err := BacklogSeed()
	if err != nil {
		t.Fatalf("backlog seed: %v", err)
	}
	if !strings.Contains(string(seed), "tasks:") {
		t.Errorf("seed missing tasks: key:\n%s", seed)
	}
}

func TestTemplateFolderFiles(t *testing.T) {
	files, err := TemplateFolderFiles()
	if err != nil {
		t.Fatalf("template folder files: %v", err)
	}

	for _, name := range []string{"TASK-000.yaml", "TASK-000-plan.md", "TASK-000-context.md"} {
		data, ok := files[name]
		if !ok {
			t.Errorf("missing template file %s", name)
			continue
		}
		if len(data) == 0 {
			t.Errorf("template file %s is empty", name)
		}
	}

	for name := range files {
		if !strings.HasPrefix(name, "TASK-000") {
			t.Errorf("unexpected non-placeholder file %s", name)
		}
	}
}
