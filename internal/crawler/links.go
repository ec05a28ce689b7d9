package crawler

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"

	"founders-crawler/pkg/models"
)

type MatchMode string

const (
	// MatchFragment accepts a personal link whose token contains any name
	// fragment longer than two characters.
	MatchFragment MatchMode = "fragment"
	// MatchStrict requires every fragment, or a close Jaro-Winkler score.
	MatchStrict MatchMode = "strict"
)

const strictSimilarity = 0.9

var personalSegments = []string{"/in/", "/pub/"}

const organizationalSegment = "/company/"

// Classify reports whether href is a personal or organizational link on
// domain (subdomains included). Anything else is NoLink.
func Classify(href, domain string) models.LinkKind {
	if !NewInDomainFilter(domain).Filter(href) {
		return models.NoLink
	}
	u, err := url.Parse(href)
	if err != nil {
		return models.NoLink
	}

	switch {
	case strings.Contains(u.Path, "/in/"):
		return models.Personal
	case strings.Contains(u.Path, organizationalSegment):
		return models.Organizational
	case strings.Contains(u.Path, "/pub/"):
		return models.Personal
	}
	return models.NoLink
}

// NameFragments returns the lowercased name parts of a profile URL's slug,
// e.g. ".../founders/38677-andy-fang" -> ["andy", "fang"]. The leading
// identifier is dropped.
func NameFragments(profileURL, segment string) []string {
	u, err := url.Parse(profileURL)
	if err != nil {
		return nil
	}
	_, slug, found := strings.Cut(u.Path, segment)
	if !found {
		return nil
	}
	slug, _, _ = strings.Cut(slug, "/")

	parts := strings.Split(strings.ToLower(slug), "-")
	if len(parts) < 2 {
		return nil
	}
	return parts[1:]
}

// LinkToken is the lowercased path segment that identifies a personal link.
func LinkToken(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	for _, seg := range personalSegments {
		if _, rest, found := strings.Cut(u.Path, seg); found {
			token, _, _ := strings.Cut(rest, "/")
			return strings.ToLower(token)
		}
	}
	return ""
}

// SelectLink picks the best link from hrefs in discovery order: the first
// personal link matching the name fragments, else the first personal link,
// else the first organizational link, else "".
func SelectLink(hrefs []string, domain string, fragments []string, mode MatchMode) string {
	var personal, organizational []string
	for _, href := range hrefs {
		switch Classify(href, domain) {
		case models.Personal:
			personal = append(personal, href)
		case models.Organizational:
			organizational = append(organizational, href)
		}
	}

	if len(personal) > 0 {
		for _, href := range personal {
			if tokenMatches(LinkToken(href), fragments, mode) {
				return href
			}
		}
		return personal[0]
	}
	if len(organizational) > 0 {
		return organizational[0]
	}
	return ""
}

func tokenMatches(token string, fragments []string, mode MatchMode) bool {
	if token == "" || len(fragments) == 0 {
		return false
	}

	if mode == MatchStrict {
		all := true
		for _, f := range fragments {
			if !strings.Contains(token, f) {
				all = false
				break
			}
		}
		return all || matchr.JaroWinkler(strings.Join(fragments, "-"), token, false) >= strictSimilarity
	}

	for _, f := range fragments {
		if utf8.RuneCountInString(f) > 2 && strings.Contains(token, f) {
			return true
		}
	}
	return false
}
