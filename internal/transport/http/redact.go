package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"maps"
	"mime"
	"mime/multipart"
	"net/url"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

const (
	maxLoggedBody = 2048
	redacted      = "redacted"
	binaryBody    = "binary"

	previewDepth   = 3
	previewKeys    = 6
	previewItems   = 3
	previewStrings = 256
)

// Any field whose name contains one of these is replaced with redacted.
var sensitiveKeys = []string{"password", "otp", "token", "refresh", "access", "secret"}

func isSensitive(name string) bool {
	name = strings.ToLower(name)
	return slices.ContainsFunc(sensitiveKeys, func(k string) bool {
		return strings.Contains(name, k)
	})
}

// summarizeBody turns a request or response body into a value that is safe
// to attach to the access log. Empty bodies yield nil.
func summarizeBody(body []byte, contentType string) any {
	if len(body) == 0 {
		return nil
	}
	mediaType, params, _ := mime.ParseMediaType(contentType)
	switch {
	case mediaType == echo.MIMEMultipartForm:
		return capSize(multipartFields(body, params["boundary"]))
	case mediaType == echo.MIMEApplicationForm:
		if values, err := url.ParseQuery(string(body)); err == nil && len(values) > 0 {
			return capSize(formFields(values))
		}
	case mediaType == echo.MIMEApplicationJSON || json.Valid(body):
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			return capSize(redactValue("", v))
		}
	}

	if !printable(body) {
		return binaryBody
	}
	text := string(body)
	if isSensitive(text) {
		return redacted
	}
	return truncate(text, maxLoggedBody)
}

func redactValue(key string, v any) any {
	if key != "" && isSensitive(key) {
		return redacted
	}
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = redactValue(k, item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = redactValue(key, item)
		}
		return out
	case string:
		return redactString(key, v)
	}
	return v
}

func redactString(key, s string) string {
	switch {
	case isSensitive(key):
		return redacted
	case !printable([]byte(s)):
		return binaryBody
	}
	return truncate(s, maxLoggedBody)
}

func formFields(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for key, vals := range values {
		for _, v := range vals {
			addField(out, key, redactString(key, v))
		}
	}
	return out
}

// multipartFields logs form fields by value and uploaded files only as
// binary. A body that cannot be parsed is reported as binary.
func multipartFields(body []byte, boundary string) any {
	if boundary == "" {
		return binaryBody
	}
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	fields := map[string]any{}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return binaryBody
		}
		if name := part.FormName(); name != "" {
			addField(fields, name, partValue(name, part))
		}
		_ = part.Close()
	}
	if len(fields) == 0 {
		return binaryBody
	}
	return fields
}

func partValue(name string, part *multipart.Part) any {
	if part.FileName() != "" {
		return binaryBody
	}
	data, err := io.ReadAll(part)
	if err != nil {
		return binaryBody
	}
	return redactString(name, string(data))
}

// addField stores repeated keys as a list, in arrival order.
func addField(fields map[string]any, key string, value any) {
	switch prev := fields[key].(type) {
	case nil:
		fields[key] = value
	case []any:
		fields[key] = append(prev, value)
	default:
		fields[key] = []any{prev, value}
	}
}

// capSize swaps values that encode larger than maxLoggedBody for a bounded
// preview.
func capSize(v any) any {
	encoded, err := json.Marshal(v)
	if err != nil || len(encoded) <= maxLoggedBody {
		return v
	}
	return map[string]any{"_truncated": true, "_preview": preview(v, 0)}
}

func preview(v any, depth int) any {
	if depth == previewDepth {
		return "..."
	}
	switch v := v.(type) {
	case map[string]any:
		keys := slices.Sorted(maps.Keys(v))
		shown := keys[:min(len(keys), previewKeys)]
		out := make(map[string]any, len(shown)+1)
		for _, k := range shown {
			out[k] = preview(v[k], depth+1)
		}
		if rest := len(keys) - len(shown); rest > 0 {
			out["_more_keys"] = rest
		}
		return out
	case []any:
		items := make([]any, min(len(v), previewItems))
		for i := range items {
			items[i] = preview(v[i], depth+1)
		}
		return map[string]any{"_len": len(v), "_items": items}
	case string:
		return truncate(v, previewStrings)
	}
	return v
}

// printable reports whether b is UTF-8 text without control characters
// other than whitespace.
func printable(b []byte) bool {
	return utf8.Valid(b) && bytes.IndexFunc(b, func(r rune) bool {
		return !unicode.IsPrint(r) && !unicode.IsSpace(r)
	}) < 0
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "...(truncated)"
}
