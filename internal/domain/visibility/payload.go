package visibility

import (
	"encoding/json"
	"strings"
)

var (
	missingKeys = []string{"missing", "weak", "gaps", "missing_prompt_types"}
	strongKeys  = []string{"strong", "strong_prompt_types"}
)

// ParsePayload returns the JSON value the model emitted when the text looks
// structured. A strict parse is tried first; if that fails, the span from the
// first '{' to the last '}' is parsed instead. That recovery is lossy: it can
// accept a truncated or partly garbled answer that happens to be valid JSON.
// ParsePayload never fails, it only reports whether something was recovered.
func ParsePayload(text string) (any, bool) {
	s := stripFence(strings.TrimSpace(text))
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return nil, false
	}

	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v, true
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), &v); err != nil {
		return nil, false
	}
	return v, true
}

// stripFence removes a ```json ... ``` wrapper.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// payloadLists extracts the lowercased missing/strong membership sets from a
// parsed payload. Non-object payloads yield empty sets.
func payloadLists(payload any) (missing, strong map[string]bool) {
	missing, strong = map[string]bool{}, map[string]bool{}
	obj, ok := payload.(map[string]any)
	if !ok {
		return missing, strong
	}
	collect := func(keys []string, into map[string]bool) {
		for _, k := range keys {
			arr, ok := obj[k].([]any)
			if !ok {
				continue
			}
			for _, it := range arr {
				if s, ok := it.(string); ok {
					into[normalize(s)] = true
				}
			}
		}
	}
	collect(missingKeys, missing)
	collect(strongKeys, strong)
	return missing, strong
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
