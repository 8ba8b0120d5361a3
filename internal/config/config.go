package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// URLPlaceholder is the sentinel shipped in the example config. It is never
// treated as a real feed location.
const URLPlaceholder = "YOUR_ICS_URL_HERE"

// EnvFeedURLs names the environment variable whose comma-separated value,
// when non-empty, fully replaces the icsUrls list from the config file. It
// exists so feed URLs (which often embed access tokens) can be kept out of
// the repository that holds config.json.
const EnvFeedURLs = "ICS_URLS"

// Config is the static configuration for one run, with defaults already
// resolved. Loaded once, immutable afterwards except for the timezone
// rewrite on fallback (see Location).
type Config struct {
	// Timezone is the IANA zone all intervals are normalized into.
	Timezone string

	// OwnerName, WeeklyProjectHours, WorkdayStart and WorkdayEnd are passed
	// through to the snapshot for the display layer; this program does not
	// interpret them.
	OwnerName          string
	WeeklyProjectHours float64
	WorkdayStart       int
	WorkdayEnd         int

	// ICSURLs is the feed list from the config file. FeedURLs resolves the
	// effective list, applying the environment override.
	ICSURLs []string
}

// fileConfig is the on-disk shape. Optional fields are pointers so that a
// key the file leaves out is distinguishable from an explicit zero or empty
// value: only missing keys get defaults, explicit values are kept verbatim.
type fileConfig struct {
	Timezone           *string  `json:"timezone" yaml:"timezone"`
	OwnerName          *string  `json:"ownerName" yaml:"ownerName"`
	WeeklyProjectHours *float64 `json:"weeklyProjectHours" yaml:"weeklyProjectHours"`
	WorkdayStart       *int     `json:"workdayStart" yaml:"workdayStart"`
	WorkdayEnd         *int     `json:"workdayEnd" yaml:"workdayEnd"`
	ICSURLs            []string `json:"icsUrls" yaml:"icsUrls"`
}

// resolve fills in the documented defaults for absent keys.
func (fc fileConfig) resolve() *Config {
	cfg := &Config{
		Timezone:           "UTC",
		OwnerName:          "Nikki",
		WeeklyProjectHours: 20,
		WorkdayStart:       8,
		WorkdayEnd:         19,
		ICSURLs:            []string{},
	}

	// An empty zone name carries no information, so it defaults too.
	if fc.Timezone != nil && *fc.Timezone != "" {
		cfg.Timezone = *fc.Timezone
	}
	if fc.OwnerName != nil {
		cfg.OwnerName = *fc.OwnerName
	}
	if fc.WeeklyProjectHours != nil {
		cfg.WeeklyProjectHours = *fc.WeeklyProjectHours
	}
	if fc.WorkdayStart != nil {
		cfg.WorkdayStart = *fc.WorkdayStart
	}
	if fc.WorkdayEnd != nil {
		cfg.WorkdayEnd = *fc.WorkdayEnd
	}
	if fc.ICSURLs != nil {
		cfg.ICSURLs = fc.ICSURLs
	}

	return cfg
}

// Load reads configuration from the given path. JSON is the canonical
// format; a .yaml/.yml path is decoded as YAML instead. A missing file is
// an error: the caller is expected to abort the run.
//
// A .env file in the working directory is loaded best-effort first, so the
// ICS_URLS override can be supplied that way during development.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return nil, err
	}

	return fc.resolve(), nil
}

// FeedURLs resolves the effective feed list. A non-empty ICS_URLS
// environment value wins entirely over the config file list (no merging);
// entries are trimmed and empty ones dropped. The config file list is
// filtered of empty entries and the placeholder sentinel.
func (c *Config) FeedURLs() []string {
	if env := strings.TrimSpace(os.Getenv(EnvFeedURLs)); env != "" {
		urls := make([]string, 0)
		for _, u := range strings.Split(env, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		return urls
	}

	urls := make([]string, 0, len(c.ICSURLs))
	for _, u := range c.ICSURLs {
		if u != "" && u != URLPlaceholder {
			urls = append(urls, u)
		}
	}
	return urls
}

// Location resolves the configured timezone. An unrecognized name is never
// fatal: the zone falls back to UTC, Timezone is rewritten so the snapshot
// reports the effective zone, and the lookup error is returned for the
// caller to log.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		c.Timezone = "UTC"
		return time.UTC, err
	}
	return loc, nil
}
