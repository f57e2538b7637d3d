package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	reTj      = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*Tj`)
	reTJArray = regexp.MustCompile(`\[((?:[^\[\]\\]|\\.)*)\]\s*TJ`)
	reTJItem  = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)
)

// alternateParser re-reads the document with a second PDF library and
// decodes the text-showing operators from each page's content stream.
// Scanned documents have none, so an empty result here is normal.
func (e *Extractor) alternateParser(ctx context.Context, path string) (string, int, []string, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, nil, err
	}

	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed

	pages, err := api.PageCountFile(path)
	if err != nil {
		return "", 0, nil, fmt.Errorf("page count: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "ft-alt-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer os.RemoveAll(tmpDir)

	if err := api.ExtractContentFile(path, tmpDir, nil, cfg); err != nil {
		return "", pages, nil, fmt.Errorf("extract content: %w", err)
	}

	matches, _ := filepath.Glob(filepath.Join(tmpDir, "*"))
	sort.Strings(matches)

	var b strings.Builder
	var warns []string
	for _, f := range matches {
		raw, err := os.ReadFile(f)
		if err != nil {
			warns = append(warns, err.Error())
			continue
		}
		txt := decodeContentStream(string(raw))
		if txt == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(txt)
	}
	return b.String(), pages, warns, nil
}

// decodeContentStream pulls literal strings out of Tj and TJ operators.
// Hex strings and CID-encoded fonts are out of scope; documents that use
// them fall through to optical recognition.
func decodeContentStream(stream string) string {
	var b strings.Builder
	emit := func(s string) {
		s = unescapePDFString(s)
		if strings.TrimSpace(s) == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	for _, m := range reTj.FindAllStringSubmatch(stream, -1) {
		emit(m[1])
	}
	for _, m := range reTJArray.FindAllStringSubmatch(stream, -1) {
		for _, item := range reTJItem.FindAllStringSubmatch(m[1], -1) {
			emit(item[1])
		}
	}
	return b.String()
}

func unescapePDFString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '(', ')', '\\':
			b.WriteByte(s[i])
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j-i < 3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			if n, err := strconv.ParseUint(s[i:j], 8, 8); err == nil {
				b.WriteByte(byte(n))
			}
			i = j - 1
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
