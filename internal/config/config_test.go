package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/calvinalkan/roster/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	err = os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func Test_Load_Defaults_When_No_Config_Files(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: map[string]string{}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := cfg.StoreFileAbs, filepath.Join(dir, "records.txt"); got != want {
		t.Errorf("StoreFileAbs=%q, want=%q", got, want)
	}

	if cfg.IndexEnabled() || cfg.IndexPathAbs != "" {
		t.Errorf("index should be disabled by default, got IndexPathAbs=%q", cfg.IndexPathAbs)
	}

	if cfg.Sources.Global != "" || cfg.Sources.Project != "" {
		t.Errorf("Sources=%+v, want none", cfg.Sources)
	}
}

func Test_Load_Precedence_Global_Project_Explicit_Flag(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xdg := t.TempDir()
	env := map[string]string{"XDG_CONFIG_HOME": xdg}

	writeFile(t, filepath.Join(xdg, "roster", "config.json"), `{"store_file": "global.txt", "index": true}`)

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: env})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := cfg.StoreFileAbs, filepath.Join(dir, "global.txt"); got != want {
		t.Errorf("global: StoreFileAbs=%q, want=%q", got, want)
	}

	if got, want := cfg.IndexPathAbs, filepath.Join(dir, "global.txt.index.sqlite"); got != want {
		t.Errorf("global: IndexPathAbs=%q, want=%q", got, want)
	}

	writeFile(t, filepath.Join(dir, ".roster.json"), `{
		// project wins over global
		"store_file": "data/project.txt",
		"index": false,
	}`)

	cfg, err = config.Load(config.LoadInput{WorkDirOverride: dir, Env: env})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := cfg.StoreFileAbs, filepath.Join(dir, "data", "project.txt"); got != want {
		t.Errorf("project: StoreFileAbs=%q, want=%q", got, want)
	}

	if cfg.IndexEnabled() {
		t.Errorf("project config should disable the index")
	}

	if got, want := cfg.Sources.Project, filepath.Join(dir, ".roster.json"); got != want {
		t.Errorf("Sources.Project=%q, want=%q", got, want)
	}

	writeFile(t, filepath.Join(dir, "custom.json"), `{"store_file": "/abs/custom.txt", "index_path": "idx.sqlite"}`)

	cfg, err = config.Load(config.LoadInput{WorkDirOverride: dir, ConfigPath: "custom.json", IndexOverride: true, Env: env})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := cfg.StoreFileAbs, "/abs/custom.txt"; got != want {
		t.Errorf("explicit: StoreFileAbs=%q, want=%q", got, want)
	}

	if got, want := cfg.IndexPathAbs, filepath.Join(dir, "idx.sqlite"); got != want {
		t.Errorf("explicit: IndexPathAbs=%q, want=%q", got, want)
	}

	cfg, err = config.Load(config.LoadInput{
		WorkDirOverride:   dir,
		ConfigPath:        "custom.json",
		StoreFileOverride: "cli.txt",
		HasStoreOverride:  true,
		Env:               env,
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := cfg.StoreFileAbs, filepath.Join(dir, "cli.txt"); got != want {
		t.Errorf("flag: StoreFileAbs=%q, want=%q", got, want)
	}
}

func Test_Load_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		files   map[string]string
		input   config.LoadInput
		wantErr error
	}{
		{
			name:    "explicit config missing",
			input:   config.LoadInput{ConfigPath: "nope.json"},
			wantErr: config.ErrConfigFileNotFound,
		},
		{
			name:    "explicit empty store_file",
			files:   map[string]string{".roster.json": `{"store_file": ""}`},
			wantErr: config.ErrStoreFileEmpty,
		},
		{
			name:    "invalid jsonc",
			files:   map[string]string{".roster.json": `{"store_file": `},
			wantErr: config.ErrConfigInvalid,
		},
		{
			name:    "wrong type",
			files:   map[string]string{".roster.json": `{"index": "yes"}`},
			wantErr: config.ErrConfigInvalid,
		},
		{
			name:    "empty store flag",
			input:   config.LoadInput{HasStoreOverride: true},
			wantErr: config.ErrStoreFileEmpty,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			for name, content := range tc.files {
				writeFile(t, filepath.Join(dir, name), content)
			}

			input := tc.input
			input.WorkDirOverride = dir
			input.Env = map[string]string{}

			_, err := config.Load(input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Load() err=%v, want %v", err, tc.wantErr)
			}
		})
	}
}
