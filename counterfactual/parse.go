package counterfactual

import (
	"encoding/json"
	"strings"
)

// ParseRecords decodes a completion response expected to hold a JSON array of
// counterfactual records.
//
// Parse order:
//  1. strict JSON on the fence-stripped text;
//  2. strict JSON on the first top-level [...] slice of the text;
//  3. normalization of Python literal tokens (True/False/None) outside string
//     literals, then strict JSON again.
//
// Models occasionally emit Python-style literals when asked for JSON; the
// normalization step exists for exactly that class of output and nothing
// broader. If all three fail, an *UnparsableOutputError is returned.
//
// Array elements missing any of the four required keys are dropped rather
// than failing the whole response; the count of dropped elements is returned
// alongside the kept records.
func ParseRecords(raw string) ([]CounterfactualRecord, int, error) {
	arr, err := parseArray(raw)
	if err != nil {
		return nil, 0, err
	}

	records := make([]CounterfactualRecord, 0, len(arr))
	dropped := 0
	for _, el := range arr {
		rec, ok := recordFromElement(el)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped, nil
}

// ParseStringList decodes a completion response expected to hold a flat JSON
// array of strings, as produced in context-enriched mode. The same
// fence-stripping, slicing, and literal normalization applies.
func ParseStringList(raw string) ([]string, error) {
	text := stripCodeFences(raw)

	var out []string
	if err := json.Unmarshal([]byte(text), &out); err == nil {
		return out, nil
	}
	if sub, ok := sliceTopLevelArray(text); ok {
		if err := json.Unmarshal([]byte(sub), &out); err == nil {
			return out, nil
		}
		if err := json.Unmarshal([]byte(normalizeLiterals(sub)), &out); err == nil {
			return out, nil
		}
	}
	return nil, &UnparsableOutputError{Detail: "expected a JSON array of strings"}
}

func parseArray(raw string) ([]map[string]json.RawMessage, error) {
	text := stripCodeFences(raw)
	if text == "" {
		return nil, &UnparsableOutputError{Detail: "empty response"}
	}

	var arr []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &arr); err == nil {
		return arr, nil
	}

	sub, ok := sliceTopLevelArray(text)
	if !ok {
		return nil, &UnparsableOutputError{Detail: "no JSON array found in response"}
	}
	if err := json.Unmarshal([]byte(sub), &arr); err == nil {
		return arr, nil
	}

	normalized := normalizeLiterals(sub)
	if err := json.Unmarshal([]byte(normalized), &arr); err != nil {
		return nil, &UnparsableOutputError{Detail: "strict and relaxed parses both failed", Err: err}
	}
	return arr, nil
}

func recordFromElement(el map[string]json.RawMessage) (CounterfactualRecord, bool) {
	var rec CounterfactualRecord
	required := []struct {
		key string
		dst *string
	}{
		{"journal_id", &rec.JournalID},
		{"which_phase", &rec.WhichPhase},
		{"original_phase", &rec.OriginalPhase},
		{"counterfactual", &rec.Counterfactual},
	}
	for _, f := range required {
		v, ok := el[f.key]
		if !ok {
			return CounterfactualRecord{}, false
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			// journal_id sometimes comes back numeric; keep its textual form.
			// Anything else non-string makes the element unusable.
			var num json.Number
			if json.Unmarshal(v, &num) != nil {
				return CounterfactualRecord{}, false
			}
			*f.dst = num.String()
		}
	}
	return rec, true
}

// stripCodeFences removes a surrounding markdown code fence, with or without
// a language tag, and trims whitespace.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		first := strings.TrimSpace(s[:nl])
		// A bare language tag like "json" on the fence line is discarded.
		if first == "" || !strings.ContainsAny(first, "[{") {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// sliceTopLevelArray extracts the first '[' through the last ']' of s.
func sliceTopLevelArray(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// normalizeLiterals substitutes Python literal tokens with their JSON
// equivalents: True -> true, False -> false, None -> null. Substitution only
// happens outside double-quoted strings and only on whole tokens, so text
// such as "True story" is left alone.
func normalizeLiterals(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if replacement, n, ok := matchLiteral(s[i:]); ok && tokenBoundary(s, i, n) {
			b.WriteString(replacement)
			i += n - 1
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func matchLiteral(s string) (replacement string, length int, ok bool) {
	switch {
	case strings.HasPrefix(s, "True"):
		return "true", 4, true
	case strings.HasPrefix(s, "False"):
		return "false", 5, true
	case strings.HasPrefix(s, "None"):
		return "null", 4, true
	}
	return "", 0, false
}

func tokenBoundary(s string, start, length int) bool {
	if start > 0 && isWordByte(s[start-1]) {
		return false
	}
	end := start + length
	if end < len(s) && isWordByte(s[end]) {
		return false
	}
	return true
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
