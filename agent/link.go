package agent

import (
	"net/url"
	"strings"

	"github.com/kbukum/sessionkit/session"
)

// ShareQueryParam carries the session code in share links.
const ShareQueryParam = "session"

// ShareLink builds a link that opens baseURL with code pre-filled.
func ShareLink(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/?" + ShareQueryParam + "=" + url.QueryEscape(session.NormalizeID(code))
}

// CodeFromInput accepts either a bare code or a share link and returns the
// normalized code. It returns "" when input holds neither.
func CodeFromInput(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if strings.Contains(input, "://") || strings.Contains(input, "?") {
		u, err := url.Parse(input)
		if err != nil {
			return ""
		}
		return session.NormalizeID(u.Query().Get(ShareQueryParam))
	}
	return session.NormalizeID(input)
}

// webSocketURL maps an http(s) server URL to its ws(s) channel endpoint.
func webSocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	u.RawQuery = ""
	return u.String(), nil
}
