package git

import (
	"log/slog"
	"strings"
	"time"
)

// DateLayout is how git renders author dates in the medium log format with
// the default date style, e.g. "Mon Jan 2 15:04:05 2024 +0000".
const DateLayout = "Mon Jan 2 15:04:05 2006 -0700"

const (
	commitPrefix = "commit "
	authorPrefix = "Author:"
	datePrefix   = "Date:"
)

// logParser assembles Commit records from medium-format git log lines. A
// record is only appended once the next "commit" line or the end of input is
// reached. With a positive limit the parser stops as soon as limit records
// are complete and drops whatever is still in progress.
type logParser struct {
	limit   int
	commits []Commit

	open    bool // a "commit" line has been seen
	current Commit
	message strings.Builder

	stopped bool
}

func newLogParser(limit int) *logParser {
	if limit < 0 {
		limit = 0
	}
	return &logParser{limit: limit, commits: []Commit{}}
}

func parseLog(lines []string, limit int) []Commit {
	p := newLogParser(limit)
	for _, line := range lines {
		if !p.feed(line) {
			break
		}
	}
	return p.finish()
}

// feed consumes one line and reports whether the parser wants more input.
func (p *logParser) feed(line string) bool {
	if p.stopped {
		return false
	}
	if p.full() {
		p.stopped = true
		return false
	}
	switch {
	case strings.HasPrefix(line, commitPrefix):
		fields := strings.Fields(line)
		if len(fields) < 2 {
			p.appendMessage(line)
			return true
		}
		if p.open {
			p.emit()
		}
		p.reset(fields[1])
	case strings.HasPrefix(line, authorPrefix):
		p.current.Author = strings.Join(strings.Fields(line)[1:], " ")
	case strings.HasPrefix(line, datePrefix):
		if p.current.Author == "" || p.current.Hash == "" {
			return true
		}
		p.current.Date = parseLogDate(strings.Join(strings.Fields(line)[1:], " "))
	default:
		p.appendMessage(line)
	}
	return true
}

// finish closes the record still in progress and returns the result.
func (p *logParser) finish() []Commit {
	if p.open && !p.stopped && !p.full() {
		p.emit()
	}
	p.open = false
	return p.commits
}

func (p *logParser) full() bool {
	return p.limit > 0 && len(p.commits) >= p.limit
}

func (p *logParser) reset(hash string) {
	p.open = true
	p.current = Commit{Hash: hash}
	p.message.Reset()
}

func (p *logParser) appendMessage(line string) {
	text := strings.TrimSpace(line)
	if text == "" {
		return
	}
	p.message.WriteString(text)
	p.message.WriteByte(' ')
}

func (p *logParser) emit() {
	commit := p.current
	commit.Message = strings.TrimSuffix(p.message.String(), " ")
	p.commits = append(p.commits, commit)
	p.current = Commit{}
	p.message.Reset()
}

func parseLogDate(raw string) time.Time {
	when, err := time.Parse(DateLayout, raw)
	if err != nil {
		slog.Debug("unparseable commit date", slog.String("date", raw), slog.Any("error", err))
		return time.Time{}
	}
	return when
}
