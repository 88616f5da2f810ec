package archive

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"
)

const (
	Extension       = ".tar.gz"
	TimestampLayout = "20060102_150405"
)

var namePattern = regexp.MustCompile(`^(.+)_(\d{8}_\d{6})` + regexp.QuoteMeta(Extension) + `$`)

// Name returns the archive file name for source taken at t:
// <base>_<YYYYMMDD_HHMMSS>.tar.gz. Trailing separators are ignored.
func Name(source string, t time.Time) string {
	base := filepath.Base(filepath.Clean(source))
	return fmt.Sprintf("%s_%s%s", base, t.Format(TimestampLayout), Extension)
}

// ParseName splits an archive file name produced by Name. The timestamp is
// interpreted in loc.
func ParseName(name string, loc *time.Location) (base string, ts time.Time, ok bool) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return "", time.Time{}, false
	}
	ts, err := time.ParseInLocation(TimestampLayout, m[2], loc)
	if err != nil {
		return "", time.Time{}, false
	}
	return m[1], ts, true
}
