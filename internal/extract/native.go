package extract

import (
	"context"
	"strings"
)

// nativeLayer pulls the embedded text layer out of the PDF.
// pdftotext -layout -enc UTF-8 -eol unix <path> -
func (e *Extractor) nativeLayer(ctx context.Context, path string) (string, int, []string, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}
	text := string(out)
	// pdftotext emits a form-feed between pages.
	pages := 1 + strings.Count(strings.TrimRight(text, "\f"), "\f")
	return text, pages, nil, nil
}
