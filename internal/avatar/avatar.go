package avatar

import (
	"net/url"
	"strings"
	"unicode"
)

type Kind int

const (
	KindInitials Kind = iota
	KindImage
	KindGenerated
)

type Info struct {
	Kind     Kind
	URL      string
	Initials string
}

// Resolve decides how a participant avatar is shown. Anything that is not a
// plain http(s) link falls back to the participant's initials.
func Resolve(link *string, name string) Info {
	info := Info{Kind: KindInitials, Initials: Initials(name)}
	if link == nil {
		return info
	}

	l := strings.TrimSpace(*link)
	u, err := url.Parse(l)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return info
	}

	info.URL = u.String()
	// dicebear and similar services render from a seed query, not a file path
	if strings.HasSuffix(u.Host, "dicebear.com") || u.Query().Has("seed") {
		info.Kind = KindGenerated
		return info
	}

	info.Kind = KindImage
	return info
}

// Initials takes the first letter of up to two words, so "Ahmad Zulkarnain"
// becomes "AZ".
func Initials(name string) string {
	var letters []rune
	for _, word := range strings.Fields(name) {
		letters = append(letters, unicode.ToUpper([]rune(word)[0]))
		if len(letters) == 2 {
			break
		}
	}
	if len(letters) == 0 {
		return "?"
	}
	return string(letters)
}
