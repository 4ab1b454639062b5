package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestLoadFromArgs_Defaults(t *testing.T) {
	cfg, err := LoadFromArgs("mcp-highlight-recoder", []string{"--dir", t.TempDir()})
	if err != nil {
		t.Fatalf("LoadFromArgs() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("Mode = %v, want stdio", cfg.Mode)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %v, want 8080", cfg.Port)
	}
	if cfg.MaxPages != DefaultMaxPages {
		t.Errorf("MaxPages = %v, want %v", cfg.MaxPages, DefaultMaxPages)
	}
	if cfg.CacheTTL != DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", cfg.CacheTTL, DefaultCacheTTL)
	}
	if cfg.ConverterPath != "soffice" {
		t.Errorf("ConverterPath = %v, want soffice", cfg.ConverterPath)
	}
}

func TestLoadFromArgs_Flags(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "server mode with custom host and port",
			args: []string{"--mode=server", "--host=0.0.0.0", "--port=9090"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Address() != "0.0.0.0:9090" || !cfg.IsServerMode() {
					t.Errorf("unexpected server settings: %s", cfg)
				}
			},
		},
		{
			name: "debug logging",
			args: []string{"--log-level=debug"},
			check: func(t *testing.T, cfg *Config) {
				if !cfg.IsDebug() {
					t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
				}
			},
		},
		{
			name: "parties and extraction",
			args: []string{"--party1=Smith", "--party2=Jones", "--y-threshold=3.5", "--cache-ttl=5m"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Party1 != "Smith" || cfg.Party2 != "Jones" {
					t.Errorf("parties = %s/%s", cfg.Party1, cfg.Party2)
				}
				if cfg.YThreshold != 3.5 {
					t.Errorf("YThreshold = %g", cfg.YThreshold)
				}
				if cfg.CacheTTL != 5*time.Minute {
					t.Errorf("CacheTTL = %v", cfg.CacheTTL)
				}
			},
		},
		{
			name: "limits",
			args: []string{"--max-file-size=50000000", "--max-pages=20"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.MaxFileSize != 50000000 || cfg.MaxPages != 20 {
					t.Errorf("limits = %d/%d", cfg.MaxFileSize, cfg.MaxPages)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromArgs("recoder", append(tt.args, "--dir="+dir))
			if err != nil {
				t.Fatalf("LoadFromArgs() unexpected error: %v", err)
			}
			if cfg.DocumentDirectory != dir {
				t.Errorf("DocumentDirectory = %s, want %s", cfg.DocumentDirectory, dir)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadFromArgs_InvalidFlags(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"invalid mode", []string{"--mode=bogus"}},
		{"invalid log level", []string{"--log-level=verbose"}},
		{"port out of range", []string{"--mode=server", "--port=0"}},
		{"unknown flag", []string{"--frobnicate"}},
		{"same parties", []string{"--party1=Smith", "--party2=SMITH"}},
		{"version", []string{"--version"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFromArgs("recoder", append(tt.args, "--dir="+dir)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFromArgs_Environment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RECODER_DIR", dir)
	t.Setenv("RECODER_PARTY1", "Acme")
	t.Setenv("RECODER_PARTY2", "Globex")
	t.Setenv("RECODER_MAX_PAGES", "12")

	cfg, err := LoadFromArgs("recoder", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DocumentDirectory != dir {
		t.Errorf("DocumentDirectory = %s, want %s", cfg.DocumentDirectory, dir)
	}
	if cfg.Party1 != "Acme" || cfg.Party2 != "Globex" {
		t.Errorf("parties = %s/%s", cfg.Party1, cfg.Party2)
	}
	if cfg.MaxPages != 12 {
		t.Errorf("MaxPages = %d, want 12", cfg.MaxPages)
	}

	// Flags win over the environment
	cfg, err = LoadFromArgs("recoder", []string{"--max-pages=30"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxPages != 30 {
		t.Errorf("MaxPages = %d, want 30", cfg.MaxPages)
	}
}

func TestLoadFromArgs_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "recoder.yaml")
	content := "dir: " + dir + "\nparty1: Smith\nparty2: Jones\nmax-pages: 40\nlog-level: warn\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromArgs("recoder", []string{"--config", file, "--log-level=error"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ConfigFile != file {
		t.Errorf("ConfigFile = %s", cfg.ConfigFile)
	}
	if cfg.DocumentDirectory != dir || cfg.MaxPages != 40 {
		t.Errorf("config file values not applied: %s", cfg)
	}
	if !cfg.HasParties() {
		t.Error("expected parties from config file")
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %s, flag should win over file", cfg.LogLevel)
	}

	if _, err := LoadFromArgs("recoder", []string{"--config", filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_DocumentFlags(t *testing.T) {
	dir := t.TempDir()
	fs := pflag.NewFlagSet("recoder", pflag.ContinueOnError)
	DefineDocumentFlags(fs, DefaultConfig())

	if fs.Lookup("mode") != nil {
		t.Error("document flags should not include the server mode")
	}
	if err := fs.Parse([]string{"--dir", dir, "--party1", "Smith", "--party2", "Jones"}); err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Mode != ModeStdio {
		t.Errorf("Mode = %v, want %v", cfg.Mode, ModeStdio)
	}
	if cfg.DocumentDirectory != dir || cfg.Party1 != "Smith" || cfg.Party2 != "Jones" {
		t.Errorf("unexpected config %s", cfg.String())
	}
}
