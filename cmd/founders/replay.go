package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"founders-crawler/internal/browser"
	"founders-crawler/internal/config"
	"founders-crawler/internal/storage"
)

var replayFlags struct {
	html     string
	profiles string
	output   string
}

func init() {
	f := replayCmd.Flags()
	f.StringVar(&replayFlags.html, "html", "", "Directory HTML saved with DUMP_HTML.")
	f.StringVar(&replayFlags.profiles, "profiles", "", "Directory of saved profile pages named <slug>.html.")
	f.StringVarP(&replayFlags.output, "output", "o", "", "Local CSV path (default OUTPUT_FILE).")
	_ = replayCmd.MarkFlagRequired("html")
	rootCmd.AddCommand(replayCmd)
}

var replayCmd = &cobra.Command{
	Use:   "replay --html directory.html [--profiles dir] [--output file.csv]",
	Short: "Runs extraction and export against saved HTML, without a browser.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := replayConfig(cfg)
		if replayFlags.output != "" {
			c.OutputFile = replayFlags.output
		}
		if err := c.Validate(); err != nil {
			return err
		}

		page, err := staticDirectory(c.DirectoryURL, replayFlags.html, replayFlags.profiles)
		if err != nil {
			return err
		}

		eng := newEngine(c, replayFlags.profiles != "", storage.NewCSVSink(c.OutputFile))
		records, report := eng.Run(cmd.Context(), page)

		printSummary(cmd.OutOrStdout(), records, report)
		return outcome(report)
	},
}

// replayConfig drops everything that only makes sense against a live site.
func replayConfig(base *config.Config) *config.Config {
	c := *base
	c.RespectRobots = false
	c.RateLimit = 0
	c.SettlePause = 0
	c.ShowMorePause = 0
	c.ScrollPause = 0
	c.NudgePause = 0
	c.DumpHTML = ""
	c.UploadBackend = config.UploadNone
	return &c
}

func staticDirectory(directoryURL, htmlPath, profilesDir string) (*browser.StaticPage, error) {
	f, err := os.Open(htmlPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	page := browser.NewStaticPage()
	if err := page.Add(directoryURL, f); err != nil {
		return nil, err
	}

	if profilesDir != "" {
		page.Fetch = func(rawURL string) (io.ReadCloser, error) {
			u, err := url.Parse(rawURL)
			if err != nil {
				return nil, err
			}
			slug := path.Base(u.Path)
			if slug == "/" || slug == "." {
				return nil, fmt.Errorf("no slug in %s", rawURL)
			}
			return os.Open(filepath.Join(profilesDir, slug+".html"))
		}
	}
	return page, nil
}
