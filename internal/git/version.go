package git

import (
	"fmt"
	"strconv"
	"strings"
)

// Minimum git release able to run the commands issued here. "git -C" first
// shipped in 1.8.5.
var minGitVersion = gitVersion{major: 1, minor: 8, patch: 5}

type gitVersion struct {
	major int
	minor int
	patch int
}

func MinGitVersion() string {
	return minGitVersion.String()
}

func (v gitVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

func (v gitVersion) less(other gitVersion) bool {
	if v.major != other.major {
		return v.major < other.major
	}
	if v.minor != other.minor {
		return v.minor < other.minor
	}
	return v.patch < other.patch
}

func parseGitVersionOutput(out string) (gitVersion, bool) {
	s := strings.TrimSpace(out)
	if s == "" {
		return gitVersion{}, false
	}
	// "git version 2.44.0", "git version 2.39.3 (Apple Git-146)",
	// "git version 2.39.3.windows.1"
	if idx := strings.Index(s, "git version"); idx >= 0 {
		s = strings.TrimSpace(s[idx+len("git version"):])
	}
	start := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if start < 0 {
		return gitVersion{}, false
	}
	s = s[start:]
	end := strings.IndexFunc(s, func(r rune) bool { return (r < '0' || r > '9') && r != '.' })
	if end >= 0 {
		s = s[:end]
	}
	s = strings.Trim(s, ".")

	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return gitVersion{}, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return gitVersion{}, false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return gitVersion{}, false
	}
	patch := 0
	if len(parts) >= 3 {
		if p, err := strconv.Atoi(parts[2]); err == nil {
			patch = p
		}
	}
	return gitVersion{major: major, minor: minor, patch: patch}, true
}

type gitVersionInfo struct {
	out    string
	parsed gitVersion
	err    error
}

func (r *Repository) gitVersionInfo() gitVersionInfo {
	r.versionOnce.Do(func() {
		lines, err := r.Execute("--version")
		if err != nil {
			r.version.err = err
			return
		}
		out := strings.TrimSpace(joinLines(lines))
		r.version.out = out
		parsed, ok := parseGitVersionOutput(out)
		if !ok {
			r.version.err = fmt.Errorf("unable to parse git version output: %q", out)
			return
		}
		r.version.parsed = parsed
	})
	return r.version
}

// GitVersion returns the raw "git --version" line. The result is cached for
// the lifetime of the Repository.
func (r *Repository) GitVersion() (string, error) {
	info := r.gitVersionInfo()
	return info.out, info.err
}

// EnsureMinGitVersion fails when the git executable is older than
// MinGitVersion.
func (r *Repository) EnsureMinGitVersion() error {
	info := r.gitVersionInfo()
	if info.err != nil {
		return info.err
	}
	if info.parsed.less(minGitVersion) {
		return fmt.Errorf("git %s is too old; gitrev requires git >= %s", info.parsed, minGitVersion)
	}
	return nil
}
