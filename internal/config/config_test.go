package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://www.ycombinator.com/companies/founders", cfg.DirectoryURL)
	require.Equal(t, "yc_founders.csv", cfg.OutputFile)
	require.Equal(t, 3, cfg.StallThreshold)
	require.Equal(t, 3*time.Second, cfg.ScrollPause)
	require.Equal(t, UploadDrive, cfg.UploadBackend)
	require.Equal(t, "service-account-key.json", cfg.GoogleCredentialsFile)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MAX_PROFILES", "10")
	t.Setenv("RATE_LIMIT", "500ms")
	t.Setenv("UPLOAD_BACKEND", "supabase")
	t.Setenv("GOOGLE_DRIVE_FOLDER_ID", "folder-123")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 10, cfg.MaxProfiles)
	require.Equal(t, 500*time.Millisecond, cfg.RateLimit)
	require.Equal(t, UploadSupabase, cfg.UploadBackend)
	require.Equal(t, "folder-123", cfg.DriveFolderID)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())

	base, err := Load()
	require.NoError(t, err)

	cases := map[string]func(c *Config){
		"stall threshold": func(c *Config) { c.StallThreshold = 0 },
		"max scrolls":     func(c *Config) { c.MaxScrolls = 0 },
		"negative cap":    func(c *Config) { c.MaxProfiles = -1 },
		"timeout":         func(c *Config) { c.ProfileTimeout = 0 },
		"upload backend":  func(c *Config) { c.UploadBackend = "s3" },
		"link match":      func(c *Config) { c.LinkMatch = "fuzzy" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := *base
			mutate(&c)
			require.Error(t, c.Validate())
		})
	}
}
