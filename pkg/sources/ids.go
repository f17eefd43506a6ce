package sources

import (
	"net/url"
	"path"
	"strings"
)

// NovelIDFromURL derives the site's own novel identifier from a novel page
// URL, e.g. https://www.69shuba.com/book/36573.htm gives "36573" and
// https://ncode.syosetu.com/n1514kj/ gives "n1514kj". Unknown sources fall
// back to the last path segment without its extension. An empty string
// means no identifier could be found.
func NovelIDFromURL(sourceID, rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	segments := pathSegments(u.Path)
	if len(segments) == 0 {
		return ""
	}

	switch sourceID {
	case "doupo":
		// /b/5217/
		if len(segments) >= 2 && segments[0] == "b" {
			return segments[1]
		}
		return ""
	case "shuhaige", "syosetu":
		// /345462 and /n1514kj/ (a chapter URL adds a trailing segment)
		return stripExt(segments[0])
	default:
		return stripExt(segments[len(segments)-1])
	}
}

func pathSegments(p string) []string {
	segments := []string{}
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func stripExt(s string) string {
	return strings.TrimSuffix(s, path.Ext(s))
}
