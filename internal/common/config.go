package common

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Paths   PathsConfig
	Extract ExtractConfig
	Gemini  GeminiConfig
	Sheets  SheetsConfig
}

// PathsConfig holds file-system locations for the stores and document source.
// Everything is rooted at BaseDir unless overridden individually.
type PathsConfig struct {
	BaseDir     string
	PDFDir      string // downloaded notice PDFs, one <detail_id>.pdf per document
	ListingFile string // scraper snapshot with per-listing metadata
	RecordsFile string // record store snapshot
	LedgerDB    string // checkpoint database
}

// ExtractConfig holds text-extraction configuration.
type ExtractConfig struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxOCRPages   int    // bounded prefix of pages to OCR, default 3
}

// GeminiConfig holds generative-service configuration.
type GeminiConfig struct {
	Model          string
	APIKey         string
	Temperature    float32
	TopP           float32
	MaxOutputTok   int32
	Timeout        time.Duration // per-call timeout
	MaxAttempts    int
	InterCallDelay time.Duration // rate limit between consecutive calls
	PromptBudget   int           // character budget for embedded document text
}

// SheetsConfig holds export sink configuration.
type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
	SheetName       string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	base := getEnv("FT_BASE_DIR", ".")
	return &Config{
		Paths: PathsConfig{
			BaseDir:     base,
			PDFDir:      getEnv("FT_PDF_DIR", filepath.Join(base, "pdf_files")),
			ListingFile: getEnv("FT_LISTING_FILE", filepath.Join(base, "collin_foreclosures.json")),
			RecordsFile: getEnv("FT_RECORDS_FILE", filepath.Join(base, "parsed_foreclosure_data.json")),
			LedgerDB:    getEnv("FT_LEDGER_DB", filepath.Join(base, "checkpoints.db")),
		},
		Extract: ExtractConfig{
			Pdftotext:     getEnv("FT_PDFTOTEXT", "pdftotext"),
			Pdftoppm:      getEnv("FT_PDFTOPPM", "pdftoppm"),
			Tesseract:     getEnv("FT_TESSERACT", "tesseract"),
			TesseractLang: getEnv("FT_TESSERACT_LANG", "eng"),
			DPI:           getEnvAsInt("FT_OCR_DPI", 300),
			MaxOCRPages:   getEnvAsInt("FT_OCR_MAX_PAGES", 3),
		},
		Gemini: GeminiConfig{
			Model:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			APIKey:         getEnv("GEMINI_API_KEY", ""),
			Temperature:    getEnvAsFloat32("GEMINI_TEMPERATURE", 0.1),
			TopP:           getEnvAsFloat32("GEMINI_TOP_P", 0.9),
			MaxOutputTok:   int32(getEnvAsInt("GEMINI_MAX_OUTPUT_TOKENS", 4096)),
			Timeout:        getEnvAsDuration("GEMINI_TIMEOUT", 90*time.Second),
			MaxAttempts:    getEnvAsInt("GEMINI_MAX_ATTEMPTS", 3),
			InterCallDelay: getEnvAsDuration("GEMINI_INTER_CALL_DELAY", 2*time.Second),
			PromptBudget:   getEnvAsInt("GEMINI_PROMPT_BUDGET", 45000),
		},
		Sheets: SheetsConfig{
			CredentialsFile: getEnv("SHEETS_CREDENTIALS_FILE", ""),
			SpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
			SheetName:       getEnv("SHEETS_SHEET_NAME", "Foreclosures"),
		},
	}
}

// Validate checks the parts of the configuration callers cannot default.
// A missing Gemini key is not an error: the pipeline degrades to the
// deterministic fallback without it.
func (c *Config) Validate() error {
	if c.Paths.PDFDir == "" {
		return NewAppError("CONFIG_ERROR", "FT_PDF_DIR is required", nil)
	}
	if c.Paths.RecordsFile == "" {
		return NewAppError("CONFIG_ERROR", "FT_RECORDS_FILE is required", nil)
	}
	if c.Paths.LedgerDB == "" {
		return NewAppError("CONFIG_ERROR", "FT_LEDGER_DB is required", nil)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
