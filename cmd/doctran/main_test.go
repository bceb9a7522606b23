package main

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandStructure(t *testing.T) {
	root := newRootCmd()
	want := []string{"translate", "translate-folder", "predict-cost", "finetune", "models", "cache", "version"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestTranslateRequiresArg(t *testing.T) {
	if _, err := execute(t, "translate"); err == nil {
		t.Error("translate without a file should error")
	}
}

func TestTranslateFolderRequiresArg(t *testing.T) {
	if _, err := execute(t, "translate-folder"); err == nil {
		t.Error("translate-folder without a directory should error")
	}
}

func TestFinetuneStatusRequiresJobID(t *testing.T) {
	if _, err := execute(t, "finetune", "status"); err == nil {
		t.Error("finetune status without a job ID should error")
	}
}

func TestFinetuneSubmitRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DOCTRAN_OPENAI_API_KEY", "")

	if _, err := execute(t, "finetune", "submit"); err == nil {
		t.Error("finetune submit without an API key should error")
	}
}

func TestTranslateRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DOCTRAN_OPENAI_API_KEY", "")

	_, err := execute(t, "translate", "doc.sgml")
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "API key") {
		t.Errorf("error = %v, want API key hint", err)
	}
}

func TestCacheExportRequiresRedis(t *testing.T) {
	t.Setenv("DOCTRAN_REDIS_URL", "")

	_, err := execute(t, "cache", "export", "out.json")
	if err == nil {
		t.Fatal("expected error without Redis configured")
	}
	if !strings.Contains(err.Error(), "redis") {
		t.Errorf("error = %v, want redis hint", err)
	}
}
