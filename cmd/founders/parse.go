package main

import (
	"bufio"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"founders-crawler/internal/crawler"
	"founders-crawler/internal/storage"
	"founders-crawler/pkg/models"
)

// blockSeparator splits entries on stdin.
const blockSeparator = "---"

func init() {
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse < entries.txt",
	Short: "Parses raw entry text from stdin (blocks separated by ---) and prints CSV.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		blocks, err := splitBlocks(cmd.InOrStdin())
		if err != nil {
			return err
		}

		records := make([]models.FounderRecord, 0, len(blocks))
		for _, b := range blocks {
			records = append(records, crawler.ParseFounderText(b))
		}
		return storage.WriteCSV(cmd.OutOrStdout(), records)
	},
}

// splitBlocks returns the non-blank text blocks between separator lines.
func splitBlocks(r io.Reader) ([]string, error) {
	var blocks []string
	var cur []string

	flush := func() {
		if text := strings.TrimSpace(strings.Join(cur, "\n")); text != "" {
			blocks = append(blocks, text)
		}
		cur = cur[:0]
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == blockSeparator {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return blocks, nil
}
