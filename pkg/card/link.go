package card

import (
	"net/url"
	"strings"
)

// selfLink is the url value the center card uses to point at itself.
const selfLink = "#me"

// VisitLink is the "Visit" button on a card's back face.
type VisitLink struct {
	Href     string `json:"href"`
	External bool   `json:"external"`
}

// Target returns the anchor target attribute value.
func (l VisitLink) Target() string {
	if l.External {
		return "_blank"
	}
	return ""
}

// Rel returns the anchor rel attribute value.
func (l VisitLink) Rel() string {
	if l.External {
		return "noopener"
	}
	return ""
}

// ClassifyLink builds the visit link for href. It returns false when the
// card should have no link (empty href or the self link). Absolute http(s)
// URLs whose scheme and host differ from origin's are external.
func ClassifyLink(href, origin string) (VisitLink, bool) {
	if href == "" || href == selfLink {
		return VisitLink{}, false
	}
	return VisitLink{Href: href, External: isExternal(href, origin)}, true
}

func isExternal(href, origin string) bool {
	u, err := url.Parse(href)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	o, err := url.Parse(origin)
	if err != nil || o.Host == "" {
		return true
	}
	return !strings.EqualFold(u.Scheme, o.Scheme) || !strings.EqualFold(u.Host, o.Host)
}
