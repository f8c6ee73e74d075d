package parsing

import (
	"bufio"
	"io"
	"os"
	"strings"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/utils/logging"
)

// IsPlaceholder reports whether input is empty or one of the input-box placeholder texts.
func IsPlaceholder(input string) bool {
	s := strings.TrimSpace(input)
	return s == "" || s == consts.PlaceholderSingle || s == consts.PlaceholderBatch
}

// ParseBatchURLs returns one URL per non-empty line, keeping only lines that name a video host.
func ParseBatchURLs(text string) []string {
	var urls []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if mentionsVideoHost(line) {
			urls = append(urls, line)
		}
	}
	return urls
}

func mentionsVideoHost(line string) bool {
	l := strings.ToLower(line)
	for _, h := range consts.VideoHosts {
		if strings.Contains(l, h) {
			return true
		}
	}
	return false
}

// ParseURLFile reads a batch from a file.
//
// Users should put a single URL on each line in the file for proper parsing.
// Hashtags exclude lines (i.e. '# Comment').
func ParseURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.E("Failed to close file %q: %v", path, err)
		}
	}()
	return ParseURLReader(f)
}

// ParseURLReader is ParseURLFile over an arbitrary reader, skipping comments and duplicates.
func ParseURLReader(r io.Reader) ([]string, error) {
	seen := make(map[string]struct{})
	var b strings.Builder

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, dup := seen[line]; dup {
			logging.D(1, "Skipping duplicate URL %q", line)
			continue
		}
		seen[line] = struct{}{}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ParseBatchURLs(b.String()), nil
}
