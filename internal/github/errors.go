package github

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// StatusError is a 4xx or 5xx response. Body is pretty-printed when the
// response was JSON.
type StatusError struct {
	Method string
	URL    string
	Status string
	Code   int
	Body   string
}

func newStatusError(method, url string, resp *http.Response, body []byte) *StatusError {
	text := string(body)
	if isJSON(resp.Header.Get("Content-Type")) && gjson.ValidBytes(body) {
		text = strings.TrimRight(gjson.GetBytes(body, "@pretty").Raw, "\n")
	}
	return &StatusError{
		Method: method,
		URL:    url,
		Status: resp.Status,
		Code:   resp.StatusCode,
		Body:   text,
	}
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s request to %s returned %s", e.Method, e.URL, e.Status)
	if strings.TrimSpace(e.Body) == "" {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	b.WriteString("\n\n")
	for _, line := range strings.Split(e.Body, "\n") {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" ||
		(strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json"))
}

// nextLink returns the rel="next" target of a Link header, or "".
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		target := strings.TrimSpace(segments[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range segments[1:] {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
				continue
			}
			for _, rel := range strings.Fields(strings.Trim(strings.TrimSpace(value), `"`)) {
				if rel == "next" {
					return strings.Trim(target, "<>")
				}
			}
		}
	}
	return ""
}
