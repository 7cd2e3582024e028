// Package netx has HTTP helpers shared by the API client: reading error
// details out of backend responses and file names out of download headers.
package netx

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
)

// MaxErrorBody caps how much of an error response is read.
const MaxErrorBody = 64 << 10

// IsSuccess reports whether status is 2xx.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// Detail extracts the human readable message from a backend error body.
//
// The backend answers with {"detail": "..."} for handled errors and
// {"detail": [{"msg": "..."}, ...]} for request validation failures. Plain
// {"message": "..."} bodies are accepted as well. An empty string means
// nothing usable was found.
func Detail(body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return strings.TrimSpace(s)
		}

		var list []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &list); err == nil {
			msgs := make([]string, 0, len(list))
			for _, item := range list {
				if m := strings.TrimSpace(item.Msg); m != "" {
					msgs = append(msgs, m)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}

	return strings.TrimSpace(payload.Message)
}

// ReadDetail drains at most MaxErrorBody bytes of resp and returns Detail.
func ReadDetail(resp *http.Response) string {
	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBody))
	if err != nil {
		return ""
	}
	return Detail(b)
}

// DispositionFilename returns the filename parameter of a Content-Disposition
// header, or "" when absent or malformed.
func DispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
