package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

const censorMask = "*****"

// censoredFields are JSON field names whose values must never reach the
// debug log.
var censoredFields = map[string]bool{
	"email":         true,
	"password":      true,
	"access_key_id": true,
	"security_key":  true,
	"access_token":  true,
	"refresh_token": true,
}

// censoredHeaders are HTTP headers whose values must never reach the
// debug log.
var censoredHeaders = map[string]bool{
	"X-Api-Key":     true,
	"Authorization": true,
}

// censorJSON renders raw JSON for the debug log with credential fields
// masked. Invalid JSON is reported as such rather than logged verbatim,
// since it could contain anything.
func censorJSON(raw []byte) string {
	if len(raw) == 0 {
		return "<empty body>"
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return "<unparseable body>"
	}
	censored, err := json.Marshal(censorValue(value))
	if err != nil {
		return "<unparseable body>"
	}
	return string(censored)
}

func censorValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for name, item := range v {
			if censoredFields[name] {
				result[name] = censorMask
			} else {
				result[name] = censorValue(item)
			}
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = censorValue(item)
		}
		return result
	default:
		return v
	}
}

// censorHeaderString renders headers for the debug log with credential
// headers masked.
func censorHeaderString(headers http.Header) string {
	parts := make([]string, 0, len(headers))
	for name := range headers {
		value := headers.Get(name)
		if censoredHeaders[http.CanonicalHeaderKey(name)] {
			value = censorMask
		}
		parts = append(parts, name+": "+value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
