package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thiagokokada/gitrev/internal/git"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or yaml)", raw)
	}
}

type commitRecord struct {
	Hash    string `json:"hash" yaml:"hash"`
	Author  string `json:"author" yaml:"author"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
	Message string `json:"message" yaml:"message"`
}

func commitRecords(commits []git.Commit) []commitRecord {
	records := make([]commitRecord, 0, len(commits))
	for _, c := range commits {
		rec := commitRecord{Hash: c.Hash, Author: c.Author, Message: c.Message}
		if c.HasDate() {
			rec.Date = c.Date.Format(time.RFC3339)
		}
		records = append(records, rec)
	}
	return records
}

// WriteCommits renders commits in the requested format.
func (p *Printer) WriteCommits(commits []git.Commit, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(commitRecords(commits))
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(commitRecords(commits)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return p.Commits(commits)
	}
}
