package parsing

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// TimestampLayout is the history entry timestamp layout.
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp formats t for a history entry.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses a history timestamp, tolerating other layouts older documents used.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(TimestampLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseLocal(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", s)
	}
	return t, nil
}

// UploadYear returns the year of an extractor upload date ("20240131"), or "".
func UploadYear(uploadDate string) string {
	d := strings.TrimSpace(uploadDate)
	if d == "" {
		return ""
	}
	if len(d) == 8 {
		d = HyphenateYyyyMmDd(d)
	}
	t, err := dateparse.ParseAny(d)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%04d", t.Year())
}

// HyphenateYyyyMmDd simply hyphenates yyyy-mm-dd date values for display.
func HyphenateYyyyMmDd(d string) string {
	d = strings.ReplaceAll(d, " ", "")
	d = strings.ReplaceAll(d, "-", "")
	if len(d) < 8 {
		return d
	}

	return d[0:4] + "-" + d[4:6] + "-" + d[6:8]
}

// FormatDuration renders seconds as m:ss or h:mm:ss.
func FormatDuration(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
