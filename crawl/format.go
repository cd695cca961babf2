package crawl

import (
	"fmt"
	"time"

	"github.com/fwojciec/sentiread"
)

// TruncateURL shortens a URL for display, keeping the end which carries
// the article slug.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatAge renders a cache age coarsely: "just now", "12m", "3h".
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	default:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	}
}

// FormatStats summarizes a batch for terminal output.
func FormatStats(s sentiread.BatchStats) string {
	return fmt.Sprintf("%d/%d succeeded, %d failed, %d cached (concurrency %d)",
		s.Successful, s.Total, s.Failed, s.Cached, s.Concurrency)
}
