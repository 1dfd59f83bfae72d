package assisted

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var errUnparsable = errors.New("response not parsable by any strategy")

var (
	fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

	kvStringPattern = regexp.MustCompile(`"([^"]+)"\s*:\s*"([^"]*)"`)
	kvNumberPattern = regexp.MustCompile(`"([^"]+)"\s*:\s*(-?\d+(?:\.\d+)?)`)
	kvBoolPattern   = regexp.MustCompile(`(?i)"([^"]+)"\s*:\s*(true|false)`)
)

// parseResponse recovers a key/value map from untrusted model output. It
// tries, in order: a direct JSON parse, the content of a fenced code
// block, the first {...} span, a repaired version of that span, and
// finally targeted key/value extraction. The name of the strategy that
// succeeded is returned for the log.
func parseResponse(text string) (map[string]any, string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, "", errUnparsable
	}

	if m := tryJSON(text); m != nil {
		return m, "direct", nil
	}

	if fence := fencedBlockPattern.FindStringSubmatch(text); fence != nil {
		if m := tryJSON(fence[1]); m != nil {
			return m, "fenced block", nil
		}
	}

	span := objectSpan(text)
	if span != "" {
		if m := tryJSON(span); m != nil {
			return m, "object span", nil
		}
		if repaired, err := jsonrepair.JSONRepair(span); err == nil {
			if m := tryJSON(repaired); m != nil {
				return m, "repair", nil
			}
		}
	}

	if m := keyValueFallback(text); len(m) > 0 {
		return m, "key-value fallback", nil
	}
	return nil, "", errUnparsable
}

func tryJSON(s string) map[string]any {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}

// objectSpan returns the outermost {...} region of the text, or "".
func objectSpan(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// keyValueFallback scrapes individual quoted key/value pairs out of text
// that defeated every JSON parser. Booleans are matched before numbers so
// "true" is never half-consumed.
func keyValueFallback(text string) map[string]any {
	result := make(map[string]any)
	for _, m := range kvStringPattern.FindAllStringSubmatch(text, -1) {
		result[m[1]] = m[2]
	}
	for _, m := range kvBoolPattern.FindAllStringSubmatch(text, -1) {
		result[m[1]] = strings.EqualFold(m[2], "true")
	}
	for _, m := range kvNumberPattern.FindAllStringSubmatch(text, -1) {
		if _, seen := result[m[1]]; seen {
			continue
		}
		if f, err := strconv.ParseFloat(m[2], 64); err == nil {
			result[m[1]] = f
		}
	}
	return result
}
