package recovery

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The generative service promises clean JSON but routinely wraps it in
// markdown fences, prose, or near-JSON with Python-isms. DecodeObject
// works through progressively wider candidate spans and progressively
// rougher repairs until one of them parses to an object.

var (
	reTrailingCommaObj = regexp.MustCompile(`,\s*}`)
	reTrailingCommaArr = regexp.MustCompile(`,\s*]`)
	reTrailingComma    = regexp.MustCompile(`,\s*([}\]])`)
	reUnquotedKey      = regexp.MustCompile(`(\w+):`)
	reDoubleQuotedKey  = regexp.MustCompile(`""(\w+)"":`)
	reValueNewline     = regexp.MustCompile(`"\s*([^"]*?)\s*\n\s*([^"]*?)\s*"`)
	reNonASCII         = regexp.MustCompile(`[^\x00-\x7F]+`)
	reRunOfSpace       = regexp.MustCompile(`\s+`)
)

// DecodeObject parses the raw model response into a JSON object,
// repairing what it can. Returns false when nothing object-shaped can
// be salvaged; manual field extraction is the caller's next move.
func DecodeObject(response string) (map[string]any, bool) {
	response = stripCodeFence(strings.TrimSpace(response))
	if response == "" {
		return nil, false
	}

	for i, candidate := range candidateSpans(response) {
		// Strict parse first: repairs are lossy (the key-quoting fix
		// can mangle colons inside string values) and must never touch
		// a response that is already valid.
		if obj, ok := parseObject(candidate); ok {
			return obj, true
		}
		repaired := applyRepairs(candidate)
		if obj, ok := parseObject(repaired); ok {
			return obj, true
		}
		// The primary span gets one rougher pass: strip non-ASCII noise
		// and collapse whitespace, which fixes OCR artifacts the model
		// echoed back inside the JSON.
		if i == 0 {
			rough := reNonASCII.ReplaceAllString(repaired, " ")
			rough = reRunOfSpace.ReplaceAllString(rough, " ")
			rough = reTrailingComma.ReplaceAllString(rough, "$1")
			if obj, ok := parseObject(rough); ok {
				return obj, true
			}
		}
	}
	return nil, false
}

// candidateSpans yields substrings of the response most likely to hold
// the JSON object, narrowest first.
func candidateSpans(response string) []string {
	var spans []string
	if start, end := strings.Index(response, "{"), strings.LastIndex(response, "}"); start != -1 && end > start {
		spans = append(spans, response[start:end+1])
	}
	if idx := strings.LastIndex(response, "JSON:"); idx != -1 {
		part := response[idx+len("JSON:"):]
		if start, end := strings.Index(part, "{"), strings.LastIndex(part, "}"); start != -1 && end > start {
			spans = append(spans, part[start:end+1])
		}
	}
	spans = append(spans, response)
	return spans
}

func applyRepairs(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "'", `"`)
	s = reTrailingCommaObj.ReplaceAllString(s, "}")
	s = reTrailingCommaArr.ReplaceAllString(s, "]")
	s = reUnquotedKey.ReplaceAllString(s, `"$1":`)
	// The unquoted-key fix double-quotes keys that were already quoted;
	// undo that before parsing.
	s = reDoubleQuotedKey.ReplaceAllString(s, `"$1":`)
	s = reValueNewline.ReplaceAllString(s, `"$1 $2"`)
	s = escapeStrayBackslashes(s)
	return s
}

// escapeStrayBackslashes doubles lone backslashes inside string
// literals. Legal descriptions are full of them ("Lot 5 \Block 2") and
// a single one makes the whole object unparseable.
func escapeStrayBackslashes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}
		switch c {
		case '"':
			inString = false
			b.WriteByte(c)
		case '\\':
			if i+1 < len(s) && strings.IndexByte(`"\/bfnrtu`, s[i+1]) != -1 {
				b.WriteByte(c)
				b.WriteByte(s[i+1])
				i++
			} else {
				b.WriteString(`\\`)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func parseObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func stripCodeFence(s string) string {
	lower := strings.ToLower(s)
	if idx := strings.Index(lower, "```json"); idx != -1 {
		body := s[idx+len("```json"):]
		if end := strings.Index(body, "```"); end != -1 {
			return strings.TrimSpace(body[:end])
		}
		return strings.TrimSpace(body)
	}
	if idx := strings.Index(s, "```"); idx != -1 {
		body := s[idx+3:]
		if end := strings.LastIndex(body, "```"); end > 0 {
			return strings.TrimSpace(body[:end])
		}
	}
	return s
}
