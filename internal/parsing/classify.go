// Package parsing classifies pasted URLs and normalizes titles, dates and batch input.
package parsing

import (
	"fmt"
	"net/url"
	"strings"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/domain/regex"
)

// URLKind is the classification of a pasted URL.
type URLKind int

const (
	URLInvalid URLKind = iota
	URLSingle
	URLPlaylistCandidate
)

func (k URLKind) String() string {
	switch k {
	case URLSingle:
		return "single"
	case URLPlaylistCandidate:
		return "playlist"
	default:
		return "invalid"
	}
}

// Classification is the result of Classify.
type Classification struct {
	Kind    URLKind
	ListID  string
	VideoID string
}

// Pseudo-lists that never hold a real playlist.
var pseudoLists = map[string]struct{}{
	"WL": {},
	"LL": {},
}

// Classify decides whether raw names a single video, a playlist candidate, or nothing usable.
//
// Watch Later, Liked and uploads ("UU...") lists count as single videos.
func Classify(raw string) Classification {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Classification{Kind: URLInvalid}
	}

	videoID := ExtractVideoID(raw)
	if !IsVideoHost(u.Hostname()) && videoID == "" {
		return Classification{Kind: URLInvalid}
	}

	if m := regex.ListParam().FindStringSubmatch(raw); m != nil {
		listID := m[1]
		if !isPseudoList(listID) {
			return Classification{Kind: URLPlaylistCandidate, ListID: listID, VideoID: videoID}
		}
	}

	return Classification{Kind: URLSingle, VideoID: videoID}
}

func isPseudoList(id string) bool {
	if _, ok := pseudoLists[id]; ok {
		return true
	}
	return strings.HasPrefix(id, "UU")
}

// IsVideoHost reports whether host is (a subdomain of) a recognised video host.
func IsVideoHost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, h := range consts.VideoHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// ExtractVideoID returns the 11-character video ID in raw, or "".
//
// The v= parameter wins; otherwise a youtu.be path or /shorts/, /embed/, /live/ path is used.
func ExtractVideoID(raw string) string {
	if m := regex.VideoIDParam().FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	host := strings.ToLower(u.Hostname())

	var candidate string
	switch {
	case host == "youtu.be" || strings.HasSuffix(host, ".youtu.be"):
		candidate = segs[0]
	case len(segs) >= 2 && (segs[0] == "shorts" || segs[0] == "embed" || segs[0] == "live" || segs[0] == "v"):
		candidate = segs[1]
	}
	if ValidVideoID(candidate) {
		return candidate
	}
	return ""
}

// ValidVideoID reports whether id is an 11-character video ID and not a collection ID.
func ValidVideoID(id string) bool {
	if !regex.ValidVideoID().MatchString(id) {
		return false
	}
	for _, p := range [...]string{"PL", "UC", "UU"} {
		if strings.HasPrefix(id, p) {
			return false
		}
	}
	return true
}

// CanonicalVideoURL returns the watch URL of the video named in raw, dropping any list context.
//
// If no video ID is present raw is returned unchanged.
func CanonicalVideoURL(raw string) string {
	id := ExtractVideoID(raw)
	if id == "" {
		return strings.TrimSpace(raw)
	}
	return WatchURL(id)
}

// WatchURL builds the canonical watch URL for a video ID.
func WatchURL(id string) string {
	return fmt.Sprintf(consts.WatchURLTemplate, id)
}

// ExtractAnyVideoID is the loose last-resort ID match used when playlist enumeration errors out.
func ExtractAnyVideoID(raw string) string {
	m := regex.AnyVideoID().FindStringSubmatch(raw)
	if m == nil || !ValidVideoID(m[1]) {
		return ""
	}
	return m[1]
}
