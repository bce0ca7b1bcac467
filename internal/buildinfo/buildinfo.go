// Package buildinfo reports what was compiled into the running binary.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

var readBuildInfo = debug.ReadBuildInfo

type Info struct {
	Version   string
	Tags      string
	Revision  string
	Modified  bool
	GoVersion string
}

// Read collects build metadata. Version is "dev" for untagged builds.
func Read() Info {
	out := Info{Version: "dev"}
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return out
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		out.Version = v
	}
	out.GoVersion = info.GoVersion
	for _, setting := range info.Settings {
		switch setting.Key {
		case "-tags":
			out.Tags = setting.Value
		case "vcs.revision":
			out.Revision = setting.Value
		case "vcs.modified":
			out.Modified = setting.Value == "true"
		}
	}
	return out
}

// String renders the version, followed by revision and tags when known.
func (i Info) String() string {
	var extras []string
	if i.Revision != "" {
		rev := i.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		if i.Modified {
			rev += "-dirty"
		}
		extras = append(extras, "rev: "+rev)
	}
	if i.Tags != "" {
		extras = append(extras, "tags: "+i.Tags)
	}
	if len(extras) == 0 {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(extras, ", "))
}
