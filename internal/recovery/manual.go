package recovery

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leadharvest/foreclosure-tracker/internal/record"
)

// minManualFields is the floor below which a manual reconstruction is
// discarded; fewer recovered fields than this means we're reading noise.
const minManualFields = 3

var (
	manualFieldRe = buildManualFieldPatterns()
	reBorrowerArr = regexp.MustCompile(`(?s)"borrower_names":\s*\[(.*?)\]`)
	reQuoted      = regexp.MustCompile(`"([^"]*)"`)
)

func buildManualFieldPatterns() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(record.StringFieldNames()))
	for _, name := range record.StringFieldNames() {
		m[name] = regexp.MustCompile(fmt.Sprintf(`(?is)"%s":\s*"([^"]*)"`, name))
	}
	return m
}

// ManualFieldExtraction scrapes `"field": "value"` pairs out of a
// response that defeated every structural repair. Returns false unless
// at least minManualFields substantive fields were recovered.
func ManualFieldExtraction(response string) (map[string]any, bool) {
	obj := make(map[string]any)
	count := 0
	for name, re := range manualFieldRe {
		m := re.FindStringSubmatch(response)
		if m == nil {
			continue
		}
		val := strings.TrimSpace(m[1])
		if val == "" || strings.EqualFold(val, "null") {
			continue
		}
		obj[name] = val
		count++
	}

	if m := reBorrowerArr.FindStringSubmatch(response); m != nil {
		var names []any
		for _, q := range reQuoted.FindAllStringSubmatch(m[1], -1) {
			if s := strings.TrimSpace(q[1]); s != "" {
				names = append(names, s)
			}
		}
		if len(names) > 0 {
			obj["borrower_names"] = names
			count++
		}
	}

	if count < minManualFields {
		return nil, false
	}
	obj["ai_confidence"] = "LOW"
	return obj, true
}
