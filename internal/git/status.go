package git

// cleanStatusSentinels are the closing lines git status prints for a working
// copy without staged or unstaged changes. git 2.9 renamed "working directory"
// to "working tree"; both phrasings are accepted. Other locales or future
// wordings are reported as not clean.
var cleanStatusSentinels = []string{
	"nothing to commit, working directory clean",
	"nothing to commit, working tree clean",
}

// IsWorkingCopyClean reports whether git status ends with one of the known
// "nothing to commit" lines.
func (r *Repository) IsWorkingCopyClean() (bool, error) {
	lines, err := r.Execute("status")
	if err != nil {
		return false, err
	}
	return isCleanStatus(lines), nil
}

func isCleanStatus(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	last := lines[len(lines)-1]
	for _, sentinel := range cleanStatusSentinels {
		if last == sentinel {
			return true
		}
	}
	return false
}
