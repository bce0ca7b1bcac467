package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

func (p *Printer) highlightDiff(diff string) string {
	style := chromaStyle(p.palette)
	lines := strings.Split(diff, "\n")
	var lexer chroma.Lexer
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			lexer = lexerForPath(diffTargetPath(line))
			lines[i] = p.style(p.palette.DiffHeader).Bold(true).Render(line)
		case strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "),
			strings.HasPrefix(line, "index "):
			lines[i] = p.paint(p.palette.DiffHeader, line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = p.paint(p.palette.DiffHunk, line)
		case line == "":
		case line[0] == '+' || line[0] == '-' || line[0] == ' ':
			marker := line[:1]
			switch marker {
			case "+":
				marker = p.paint(p.palette.DiffAdd, marker)
			case "-":
				marker = p.paint(p.palette.DiffDel, marker)
			}
			lines[i] = marker + p.highlightCode(lexer, style, line[1:])
		}
	}
	return strings.Join(lines, "\n")
}

func (p *Printer) highlightCode(lexer chroma.Lexer, style *chroma.Style, code string) string {
	if lexer == nil || style == nil || code == "" {
		return code
	}
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var b strings.Builder
	for _, token := range iterator.Tokens() {
		value := strings.ReplaceAll(token.Value, "\n", "")
		if value == "" {
			continue
		}
		color := colorFromEntry(style.Get(token.Type))
		if color == "" {
			b.WriteString(value)
			continue
		}
		b.WriteString(p.term.String(value).Foreground(p.term.Color(color)).String())
	}
	// Lexers may drop or rewrite input; fall back rather than corrupt the line.
	if stripANSI(b.String()) != code {
		return code
	}
	return b.String()
}

func chromaStyle(p Palette) *chroma.Style {
	if st := styles.Get(p.ChromaStyle); st != nil {
		return st
	}
	return styles.Fallback
}

func colorFromEntry(entry chroma.StyleEntry) string {
	if !entry.Colour.IsSet() {
		return ""
	}
	return "#" + strings.TrimPrefix(strings.ToLower(entry.Colour.String()), "#")
}

func lexerForPath(path string) chroma.Lexer {
	if path == "" {
		return nil
	}
	lexer := lexers.Match(path)
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}

// diffTargetPath extracts the post-image path from a "diff --git a/x b/y"
// header. Quoted paths are unescaped.
func diffTargetPath(header string) string {
	rest, ok := strings.CutPrefix(header, "diff --git")
	if !ok {
		return ""
	}
	rest = strings.TrimSpace(rest)
	var paths []string
	for rest != "" {
		if rest[0] == '"' {
			var buf strings.Builder
			i := 1
			for ; i < len(rest) && rest[i] != '"'; i++ {
				if rest[i] == '\\' && i+1 < len(rest) {
					i++
				}
				buf.WriteByte(rest[i])
			}
			paths = append(paths, buf.String())
			rest = rest[min(i+1, len(rest)):]
		} else {
			field, tail, _ := strings.Cut(rest, " ")
			paths = append(paths, field)
			rest = tail
		}
		rest = strings.TrimLeft(rest, " ")
	}
	if len(paths) < 2 {
		return ""
	}
	return strings.TrimPrefix(paths[len(paths)-1], "b/")
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < '@' || s[j] > '~') {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
