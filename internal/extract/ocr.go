package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// opticalRecognition rasterizes the leading pages and runs them through
// tesseract. Foreclosure notices carry everything that matters on the
// first pages, so only MaxOCRPages are rendered.
func (e *Extractor) opticalRecognition(ctx context.Context, path string) (string, int, []string, error) {
	tmpDir, err := os.MkdirTemp("", "ft-ocr-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("extract.ocr.tmp_cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png -l <n> <in.pdf> <tmp/page>
	args := []string{"-r", fmt.Sprintf("%d", e.cfg.DPI), "-png"}
	if e.cfg.MaxOCRPages > 0 {
		args = append(args, "-l", fmt.Sprintf("%d", e.cfg.MaxOCRPages))
	}
	args = append(args, path, prefix)
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, args...)
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxOCRPages > 0 && len(matches) > e.cfg.MaxOCRPages {
		matches = matches[:e.cfg.MaxOCRPages]
	}
	if len(matches) == 0 {
		return "", 0, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	// One tesseract process per page; results land in page order.
	texts := make([]string, len(matches))
	pageWarns := make([][]string, len(matches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.OCRWorkers)
	for i, img := range matches {
		g.Go(func() error {
			txt, w, err := e.tesseractOCR(gctx, img)
			if err != nil {
				pageWarns[i] = append(w, err.Error())
				return nil
			}
			texts[i] = txt
			pageWarns[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", 0, nil, err
	}

	var b strings.Builder
	var warns []string
	for i, txt := range texts {
		warns = append(warns, pageWarns[i]...)
		if strings.TrimSpace(txt) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "PAGE %d:\n%s", i+1, txt)
	}
	return b.String(), len(matches), warns, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, imgPath string) (string, []string, error) {
	// tesseract <img> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, imgPath, "stdout", "-l", e.cfg.TesseractLang)
	if err != nil {
		return "", []string{string(errb)}, err
	}
	var warns []string
	if len(errb) > 0 {
		warns = append(warns, truncate(string(errb), 2<<10))
	}
	return string(out), warns, nil
}
