package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"

	"github.com/glabrego/ipsw-timeline/internal/render/theme"
)

const (
	envPrefix     = "IPSW_TIMELINE"
	configFileEnv = envPrefix + "_CONFIG"
)

// ErrHelp is returned when -h or -help was requested.
var ErrHelp = flag.ErrHelp

// Config holds runtime settings for the CLI. Values come from defaults, an
// optional HCL file, IPSW_TIMELINE_* variables and flags, later sources
// winning.
type Config struct {
	FeedURL   string        `env:"FEED_URL" hcl:"feed_url" default:"https://ipsw.me/timeline.rss"`
	Limit     int           `env:"LIMIT" hcl:"limit" default:"15"`
	Contains  string        `env:"CONTAINS" hcl:"contains"`
	StateFile string        `env:"STATE_FILE" hcl:"state_file" default:"~/.ipsw_timeline_state.json"`
	OnlyNew   bool          `env:"ONLY_NEW" hcl:"only_new"`
	Remember  bool          `env:"REMEMBER" hcl:"remember"`
	ShowLinks bool          `env:"SHOW_LINKS" hcl:"show_links"`
	Timeout   time.Duration `env:"TIMEOUT" hcl:"timeout" default:"10s"`
	Color     string        `env:"COLOR" hcl:"color" default:"auto"`
	Verbose   bool          `env:"VERBOSE" hcl:"verbose"`
}

// Load reads defaults, the config file and the environment, then applies
// the flags in args on top. Usage output for -h goes to usage.
func Load(args []string, usage io.Writer) (Config, error) {
	// Seed the flag set from the default tags so -h shows real defaults.
	var parsed Config
	if err := aconfig.LoaderFor(&parsed, aconfig.Config{
		SkipFlags: true,
		SkipEnv:   true,
		SkipFiles: true,
	}).Load(); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	configFile := ""
	fs := newFlagSet(&parsed, &configFile, usage)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, ErrHelp
		}
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	files := defaultConfigFiles()
	if env := strings.TrimSpace(os.Getenv(configFileEnv)); env != "" {
		files = []string{env}
	}
	explicitFile := configFile != ""
	if explicitFile {
		files = []string{configFile}
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix:          envPrefix,
		SkipFlags:          true,
		AllowUnknownEnvs:   true,
		FailOnFileNotFound: explicitFile,
		Files:              files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".hcl": aconfighcl.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	// Re-apply only the flags the user actually passed.
	overlay := newFlagSet(&cfg, &configFile, io.Discard)
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if err := overlay.Set(f.Name, f.Value.String()); err != nil && setErr == nil {
			setErr = fmt.Errorf("apply flag -%s: %w", f.Name, err)
		}
	})
	if setErr != nil {
		return Config{}, setErr
	}
	cfg.FeedURL = strings.TrimSpace(cfg.FeedURL)
	cfg.StateFile = expandHome(strings.TrimSpace(cfg.StateFile))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newFlagSet(c *Config, configFile *string, usage io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("ipsw-timeline", flag.ContinueOnError)
	fs.SetOutput(usage)
	fs.StringVar(&c.FeedURL, "feed-url", c.FeedURL, "RSS feed to read")
	fs.IntVar(&c.Limit, "limit", c.Limit, "maximum number of entries to show (0 for all)")
	fs.StringVar(&c.Contains, "contains", c.Contains, "only show entries whose title includes this string (case-insensitive)")
	fs.StringVar(&c.StateFile, "state-file", c.StateFile, "where to store the last seen GUID")
	fs.BoolVar(&c.OnlyNew, "only-new", c.OnlyNew, "only display entries newer than the last saved GUID")
	fs.BoolVar(&c.Remember, "remember", c.Remember, "only display entries newer than the saved GUID, then save the newest one shown")
	fs.BoolVar(&c.ShowLinks, "show-links", c.ShowLinks, "show entry links in the table")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "network timeout")
	fs.StringVar(&c.Color, "color", c.Color, "colorize output: auto, always or never")
	fs.BoolVar(&c.Verbose, "verbose", c.Verbose, "log pipeline steps to stderr")
	fs.StringVar(configFile, "config", *configFile, "HCL config file (default $XDG_CONFIG_HOME/ipsw-timeline/config.hcl)")
	return fs
}

func (c Config) Validate() error {
	if _, err := validateFeedURL(c.FeedURL); err != nil {
		return fmt.Errorf("feed-url: %w", err)
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative: %d", c.Limit)
	}
	if c.StateFile == "" {
		return errors.New("state-file is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive: %s", c.Timeout)
	}
	if _, err := theme.ParseMode(c.Color); err != nil {
		return err
	}
	return nil
}

// ColorMode is the parsed Color setting; Validate guarantees it parses.
func (c Config) ColorMode() theme.Mode {
	m, err := theme.ParseMode(c.Color)
	if err != nil {
		return theme.ModeAuto
	}
	return m
}

func validateFeedURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("no URL given")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL host")
	}
	return trimmed, nil
}

func defaultConfigFiles() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "ipsw-timeline", "config.hcl")}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
