package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadharvest/foreclosure-tracker/internal/common"
)

// fakeRunner scripts the external commands the cascade shells out to.
type fakeRunner struct {
	pdftotextOut string
	pdftotextErr error
	ocrPages     []string
	tesseractErr error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	switch {
	case strings.Contains(name, "pdftotext"):
		return []byte(f.pdftotextOut), nil, f.pdftotextErr
	case strings.Contains(name, "pdftoppm"):
		// pdftoppm writes <prefix>-N.png; mimic that so the glob finds pages.
		prefix := args[len(args)-1]
		for i := range f.ocrPages {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i+1), []byte{0}, 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case strings.Contains(name, "tesseract"):
		if f.tesseractErr != nil {
			return nil, nil, f.tesseractErr
		}
		img := args[0]
		for i, txt := range f.ocrPages {
			if strings.Contains(img, fmt.Sprintf("-%d.png", i+1)) {
				return []byte(txt), nil, nil
			}
		}
		return nil, nil, nil
	}
	return nil, nil, fmt.Errorf("unexpected command %q", name)
}

func newTestExtractor(r Runner) *Extractor {
	e := NewExtractor(Config{}, nil)
	e.runner = r
	return e
}

func TestExtractNativeLayerShortCircuits(t *testing.T) {
	body := strings.Repeat("NOTICE OF SUBSTITUTE TRUSTEE SALE ", 10)
	e := newTestExtractor(&fakeRunner{pdftotextOut: body + "\f" + body})

	res, err := e.Extract(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, MethodNativeLayer, res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, res.Text, "SUBSTITUTE TRUSTEE")
}

func TestExtractThinTextLayerFallsThroughToOCR(t *testing.T) {
	// A stamped scan: the text layer exists but holds almost nothing.
	e := newTestExtractor(&fakeRunner{
		pdftotextOut: "  417  \n",
		ocrPages: []string{
			strings.Repeat("DEED OF TRUST dated January 5, 2019 ", 5),
			strings.Repeat("Property Address: 100 Elm St, Plano, TX ", 5),
		},
	})

	res, err := e.Extract(context.Background(), "scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, MethodOptical, res.Method)
	assert.Contains(t, res.Text, "PAGE 1:")
	assert.Contains(t, res.Text, "PAGE 2:")
	assert.Less(t, strings.Index(res.Text, "PAGE 1:"), strings.Index(res.Text, "PAGE 2:"),
		"pages must stay in document order")
}

func TestExtractAllLayersEmpty(t *testing.T) {
	e := newTestExtractor(&fakeRunner{
		pdftotextOut: "",
		ocrPages:     []string{"", ""},
	})

	res, err := e.Extract(context.Background(), "blank.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtraction))
	assert.Equal(t, MethodNone, res.Method)
	assert.Empty(t, res.Text)
}

func TestExtractOCRCommandFailure(t *testing.T) {
	e := newTestExtractor(&fakeRunner{
		pdftotextOut: "x",
		ocrPages:     []string{"ignored"},
		tesseractErr: errors.New("tesseract: libtiff missing"),
	})

	_, err := e.Extract(context.Background(), "scan.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtraction))
}

func TestNonWhitespaceLen(t *testing.T) {
	assert.Equal(t, 0, nonWhitespaceLen(" \n\t\f "))
	assert.Equal(t, 3, nonWhitespaceLen(" a b c "))
}
