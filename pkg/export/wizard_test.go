package export

import (
	"testing"
)

func TestWizardConfigNormalizeDefaults(t *testing.T) {
	c := WizardConfig{Format: "markdown"}
	if err := c.normalize(); err != nil {
		t.Fatal(err)
	}
	if c.OutputPath != "selection.md" {
		t.Errorf("OutputPath = %q, want selection.md", c.OutputPath)
	}

	c = WizardConfig{Format: "png"}
	if err := c.normalize(); err != nil {
		t.Fatal(err)
	}
	if c.OutputPath != "selection.png" {
		t.Errorf("OutputPath = %q, want selection.png", c.OutputPath)
	}
}

func TestWizardConfigNormalizeAddsExtension(t *testing.T) {
	c := WizardConfig{Format: "svg", OutputPath: "out/report"}
	if err := c.normalize(); err != nil {
		t.Fatal(err)
	}
	if c.OutputPath != "out/report.svg" {
		t.Errorf("OutputPath = %q, want out/report.svg", c.OutputPath)
	}
}

func TestWizardConfigNormalizeRejectsUnknownFormat(t *testing.T) {
	c := WizardConfig{Format: "pdf"}
	if err := c.normalize(); err == nil {
		t.Error("expected error for unknown format")
	}
}
