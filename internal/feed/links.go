package feed

import (
	"strings"

	"mvdan.cc/xurls/v2"
)

var urlRe = xurls.Strict()

// Links extracts the distinct URLs mentioned in a post's text, in
// order of first appearance, for the detail view's outbound links.
func Links(text string) []string {
	matches := urlRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var links []string

	for _, m := range matches {
		m = strings.TrimSpace(m)
		if _, ok := seen[m]; ok {
			continue
		}

		seen[m] = struct{}{}
		links = append(links, m)
	}

	return links
}
