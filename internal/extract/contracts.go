package extract

import "context"

// Method identifies which layer of the cascade produced the text.
type Method string

const (
	MethodNativeLayer Method = "NATIVE_LAYER"
	MethodAlternate   Method = "ALTERNATE_PARSER"
	MethodOptical     Method = "OPTICAL_RECOGNITION"
	MethodNone        Method = "NONE"
)

// Result is the outcome of one extraction pass over a document.
type Result struct {
	Text     string
	Method   Method
	Pages    int
	Warnings []string
}

// TextExtractor turns a PDF on disk into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (*Result, error)
}
