package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultMaxPages    = 500
	DefaultYThreshold  = 2.0
	DefaultCacheSize   = 64
	DefaultCacheTTL    = 30 * time.Minute
	DefaultConverter   = "soffice"

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment variable, e.g. RECODER_DIR.
	EnvPrefix = "RECODER"
)

// Config holds all configuration for the highlight recoder server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Document configuration
	DocumentDirectory string
	MaxFileSize       int64 // Maximum document size in bytes
	MaxPages          int
	ConverterPath     string

	// Case configuration, used when a request does not name the parties
	Party1 string
	Party2 string

	// Extraction configuration
	YThreshold float64
	CacheSize  int
	CacheTTL   time.Duration

	// Application configuration
	ConfigFile string
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:              ModeStdio,
		Host:              DefaultHost,
		Port:              DefaultPort,
		DocumentDirectory: currentDir,
		MaxFileSize:       DefaultMaxFileSize,
		MaxPages:          DefaultMaxPages,
		ConverterPath:     DefaultConverter,
		YThreshold:        DefaultYThreshold,
		CacheSize:         DefaultCacheSize,
		CacheTTL:          DefaultCacheTTL,
		Version:           "1.0.0",
		ServerName:        "mcp-highlight-recoder",
		LogLevel:          DefaultLogLevel,
	}
}

// LoadFromFlags parses the process command line and returns a configuration
func LoadFromFlags() (*Config, error) {
	return LoadFromArgs(os.Args[0], os.Args[1:])
}

// LoadFromArgs builds a configuration from defaults, an optional YAML config
// file, RECODER_* environment variables and args, later sources winning.
func LoadFromArgs(program string, args []string) (*Config, error) {
	fs := pflag.NewFlagSet(program, pflag.ContinueOnError)
	defineCommandLineFlags(fs, DefaultConfig())
	setupUsageMessage(fs, program)

	if err := checkVersionFlag(args); err != nil {
		return nil, err
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return Load(v)
}

// Load reads a configuration from v, which normally has flags bound to it.
// Defaults, the config file named by the "config" key and the environment are
// layered underneath.
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	setupViperEnvironment(v, cfg)

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	populateConfigFromViper(v, cfg)

	if cfg.DocumentDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.DocumentDirectory); err == nil {
			cfg.DocumentDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.DocumentDirectory)
	v.SetDefault("log-level", cfg.LogLevel)
	v.SetDefault("max-file-size", cfg.MaxFileSize)
	v.SetDefault("max-pages", cfg.MaxPages)
	v.SetDefault("converter", cfg.ConverterPath)
	v.SetDefault("y-threshold", cfg.YThreshold)
	v.SetDefault("cache-size", cfg.CacheSize)
	v.SetDefault("cache-ttl", cfg.CacheTTL)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for the HTTP API")
	fs.String("host", cfg.Host, "Server host address (server mode only)")
	fs.Int("port", cfg.Port, "Server port (server mode only)")
	DefineDocumentFlags(fs, cfg)
}

// DefineDocumentFlags adds the flags shared by the server and the command line tool.
func DefineDocumentFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("config", "", "YAML configuration file")
	fs.String("dir", cfg.DocumentDirectory, "Directory containing case documents and label tables")
	fs.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64("max-file-size", cfg.MaxFileSize, "Maximum document size in bytes")
	fs.Int("max-pages", cfg.MaxPages, "Maximum number of pages per document")
	fs.String("converter", cfg.ConverterPath, "Office binary used to convert DOCX to PDF")
	fs.String("party1", cfg.Party1, "Default first party name")
	fs.String("party2", cfg.Party2, "Default second party name")
	fs.Float64("y-threshold", cfg.YThreshold, "Vertical tolerance in points for merging spans into lines")
	fs.Int("cache-size", cfg.CacheSize, "Number of extraction results kept in memory")
	fs.Duration("cache-ttl", cfg.CacheTTL, "How long an extraction result stays cached")
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage(fs *pflag.FlagSet, program string) {
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", program)
		fmt.Fprintf(os.Stderr, "\nMCP Highlight Recoder - extracts highlighted case arguments and writes SPSS recode syntax\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          "+
			"# stdio mode, current directory (default)\n", program)
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/cases                     "+
			"# stdio mode with custom directory\n", program)
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/path/to/cases       # HTTP API\n", program)
		fmt.Fprintf(os.Stderr, "  %s --party1=Smith --party2=Jones            # default parties\n", program)
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  RECODER_MODE           Server mode\n")
		fmt.Fprintf(os.Stderr, "  RECODER_HOST           Server host\n")
		fmt.Fprintf(os.Stderr, "  RECODER_PORT           Server port\n")
		fmt.Fprintf(os.Stderr, "  RECODER_DIR            Document directory\n")
		fmt.Fprintf(os.Stderr, "  RECODER_LOG_LEVEL      Log level\n")
		fmt.Fprintf(os.Stderr, "  RECODER_MAX_FILE_SIZE  Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  RECODER_PARTY1         First party name\n")
		fmt.Fprintf(os.Stderr, "  RECODER_PARTY2         Second party name\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag(args []string) error {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.ConfigFile = v.GetString("config")
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.DocumentDirectory = v.GetString("dir")
	cfg.LogLevel = v.GetString("log-level")
	cfg.MaxFileSize = v.GetInt64("max-file-size")
	cfg.MaxPages = v.GetInt("max-pages")
	cfg.ConverterPath = v.GetString("converter")
	cfg.Party1 = v.GetString("party1")
	cfg.Party2 = v.GetString("party2")
	cfg.YThreshold = v.GetFloat64("y-threshold")
	cfg.CacheSize = v.GetInt("cache-size")
	cfg.CacheTTL = v.GetDuration("cache-ttl")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Port only matters when listening
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.DocumentDirectory == "" {
		return errors.New("document directory cannot be empty")
	}

	if _, err := os.Stat(c.DocumentDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DocumentDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create document directory %s: %w", c.DocumentDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access document directory %s: %w", c.DocumentDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.MaxPages <= 0 {
		return errors.New("maximum page count must be positive")
	}
	if c.YThreshold <= 0 {
		return errors.New("y threshold must be positive")
	}
	if c.CacheSize <= 0 {
		return errors.New("cache size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	// Party names are optional, but a configured pair must be usable.
	p1, p2 := strings.TrimSpace(c.Party1), strings.TrimSpace(c.Party2)
	if (p1 == "") != (p2 == "") {
		return errors.New("party1 and party2 must be set together")
	}
	if p1 != "" && cases.Fold().String(p1) == cases.Fold().String(p2) {
		return fmt.Errorf("party names must differ: %s", p1)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// HasParties reports whether default party names are configured
func (c *Config) HasParties() bool {
	return strings.TrimSpace(c.Party1) != "" && strings.TrimSpace(c.Party2) != ""
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DocumentDirectory: %s, LogLevel: %s, "+
		"MaxFileSize: %d, MaxPages: %d, Parties: %q/%q, YThreshold: %g}",
		c.Mode, c.Host, c.Port, c.DocumentDirectory, c.LogLevel,
		c.MaxFileSize, c.MaxPages, c.Party1, c.Party2, c.YThreshold)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
