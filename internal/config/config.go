package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	UploadDrive    = "drive"
	UploadSupabase = "supabase"
	UploadNone     = "none"

	MatchFragment = "fragment"
	MatchStrict   = "strict"
)

type Config struct {
	// DirectoryURL maps to DIRECTORY_URL, the founders listing page.
	DirectoryURL string `envconfig:"DIRECTORY_URL" default:"https://www.ycombinator.com/companies/founders"`

	// OutputFile is the local CSV written at the end of a run.
	OutputFile string `envconfig:"OUTPUT_FILE" default:"yc_founders.csv"`

	Headless   bool   `envconfig:"HEADLESS" default:"true"`
	ChromePath string `envconfig:"CHROME_PATH"`
	UserAgent  string `envconfig:"USER_AGENT" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0 Safari/537.36"`

	// Bounded waits for the page body to exist.
	PageLoadTimeout time.Duration `envconfig:"PAGE_LOAD_TIMEOUT" default:"15s"`
	ProfileTimeout  time.Duration `envconfig:"PROFILE_TIMEOUT" default:"10s"`

	// Fixed pauses.
	SettlePause   time.Duration `envconfig:"SETTLE_PAUSE" default:"2s"`
	ShowMorePause time.Duration `envconfig:"SHOW_MORE_PAUSE" default:"5s"`
	ScrollPause   time.Duration `envconfig:"SCROLL_PAUSE" default:"3s"`
	NudgePause    time.Duration `envconfig:"NUDGE_PAUSE" default:"2s"`

	// RateLimit is the minimum spacing between profile visits on one host.
	RateLimit time.Duration `envconfig:"RATE_LIMIT" default:"2s"`

	StallThreshold  int           `envconfig:"STALL_THRESHOLD" default:"3"`
	MaxScrolls      int           `envconfig:"MAX_SCROLLS" default:"400"`
	MaxLoadDuration time.Duration `envconfig:"MAX_LOAD_DURATION" default:"20m"`
	RunTimeout      time.Duration `envconfig:"RUN_TIMEOUT" default:"8h"`

	// MaxProfiles caps profile visits; 0 visits every profile.
	MaxProfiles int `envconfig:"MAX_PROFILES" default:"0"`

	RespectRobots bool   `envconfig:"RESPECT_ROBOTS" default:"true"`
	LinkMatch     string `envconfig:"LINK_MATCH" default:"fragment"`

	EntrySelector      string `envconfig:"ENTRY_SELECTOR" default:"a._company_i9oky_355"`
	FallbackSelector   string `envconfig:"FALLBACK_SELECTOR" default:"a[href*='/founders/']"`
	ShowMoreSelector   string `envconfig:"SHOW_MORE_SELECTOR" default:"._showResults_i9oky_169 button"`
	LinkSelector       string `envconfig:"LINK_SELECTOR" default:"a[href*='linkedin.com']"`
	ProfilePathSegment string `envconfig:"PROFILE_PATH_SEGMENT" default:"/founders/"`
	NetworkDomain      string `envconfig:"NETWORK_DOMAIN" default:"linkedin.com"`

	// DumpHTML, when set, receives the rendered directory page after loading.
	DumpHTML string `envconfig:"DUMP_HTML"`

	UploadBackend string `envconfig:"UPLOAD_BACKEND" default:"drive"`

	// GoogleServiceAccountKey is the JSON credential blob; GoogleCredentialsFile
	// is read instead when it is empty.
	GoogleServiceAccountKey string `envconfig:"GOOGLE_SERVICE_ACCOUNT_KEY"`
	GoogleCredentialsFile   string `envconfig:"GOOGLE_CREDENTIALS_FILE" default:"service-account-key.json"`
	DriveFolderID           string `envconfig:"GOOGLE_DRIVE_FOLDER_ID"`

	SupabaseURL    string `envconfig:"SUPABASE_URL"`
	SupabaseKey    string `envconfig:"SUPABASE_KEY"`
	SupabaseBucket string `envconfig:"SUPABASE_BUCKET" default:"founders"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load processes environment variables and populates the Config struct.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			slog.Warn(".env file found but could not be loaded", "err", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.DirectoryURL == "" {
		return fmt.Errorf("DIRECTORY_URL is empty")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("OUTPUT_FILE is empty")
	}
	if c.StallThreshold < 1 {
		return fmt.Errorf("STALL_THRESHOLD must be at least 1, got %d", c.StallThreshold)
	}
	if c.MaxScrolls < 1 {
		return fmt.Errorf("MAX_SCROLLS must be at least 1, got %d", c.MaxScrolls)
	}
	if c.MaxProfiles < 0 {
		return fmt.Errorf("MAX_PROFILES must not be negative, got %d", c.MaxProfiles)
	}
	for name, d := range map[string]time.Duration{
		"PAGE_LOAD_TIMEOUT": c.PageLoadTimeout,
		"PROFILE_TIMEOUT":   c.ProfileTimeout,
		"MAX_LOAD_DURATION": c.MaxLoadDuration,
		"RUN_TIMEOUT":       c.RunTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	switch c.UploadBackend {
	case UploadDrive, UploadSupabase, UploadNone:
	default:
		return fmt.Errorf("unknown UPLOAD_BACKEND %q", c.UploadBackend)
	}
	switch c.LinkMatch {
	case MatchFragment, MatchStrict:
	default:
		return fmt.Errorf("unknown LINK_MATCH %q", c.LinkMatch)
	}
	return nil
}
