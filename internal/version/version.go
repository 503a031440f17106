package version

import (
	"runtime/debug"
	"strings"
)

// Fallback is reported for development builds.
const Fallback = "1.0.0"

// String returns the module version stamped into the binary, or Fallback for
// local, dirty, or pseudo-versioned builds.
func String() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Fallback
	}
	return resolve(info.Main.Version)
}

func resolve(v string) string {
	if v == "" || v == "(devel)" {
		return Fallback
	}
	if strings.Contains(v, "+dirty") || isPseudoVersion(v) {
		return Fallback
	}
	return strings.TrimPrefix(v, "v")
}

func isPseudoVersion(v string) bool {
	v, _, _ = strings.Cut(v, "+")

	parts := strings.Split(v, "-")
	if len(parts) < 3 {
		return false
	}
	ts := parts[len(parts)-2]
	hash := parts[len(parts)-1]
	if len(ts) != 14 || strings.Trim(ts, "0123456789") != "" {
		return false
	}
	return len(hash) >= 12 && strings.Trim(hash, "0123456789abcdefABCDEF") == ""
}
