// Package pdf renders quotation PDFs by shelling out to an external
// renderer script. The resolved quotation document is written to a temp
// JSON file, the script turns it into a PDF, and the bytes are read back.
// Temp files are removed on every path.
package pdf

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Renderer invokes the external PDF script.
type Renderer struct {
	pythonBin string
	script    string
	tempDir   string
}

// NewRenderer creates a Renderer. pythonBin defaults to python3 and
// tempDir to the OS temp directory when empty.
func NewRenderer(pythonBin, script, tempDir string) *Renderer {
	if pythonBin == "" {
		pythonBin = "python3"
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Renderer{pythonBin: pythonBin, script: script, tempDir: tempDir}
}

// Render writes doc as JSON, runs the renderer script against it and
// returns the generated PDF bytes. id distinguishes concurrent renders.
func (r *Renderer) Render(ctx context.Context, doc any, id string) ([]byte, error) {
	if err := os.MkdirAll(r.tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	dataPath := filepath.Join(r.tempDir, fmt.Sprintf("quote_%s_data.json", id))
	pdfPath := filepath.Join(r.tempDir, fmt.Sprintf("quote_%s.pdf", id))
	defer os.Remove(dataPath)
	defer os.Remove(pdfPath)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(dataPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.pythonBin, r.script, dataPath, pdfPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w: %s", err, strings.TrimSpace(string(out)))
	}
	if len(out) > 0 {
		slog.Warn("pdf renderer output", "output", strings.TrimSpace(string(out)))
	}

	pdfBytes, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return pdfBytes, nil
}

// filenameUnsafe matches characters stripped from attachment filenames.
var filenameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9 \-_]`)

// AttachmentFilename builds the download filename for a quotation PDF.
// The company falls back to the client name, then "NA"; unsafe characters
// are stripped so the name survives Content-Disposition.
func AttachmentFilename(quoteNumber string, company, clientName *string, createdAt time.Time) string {
	raw := "NA"
	if company != nil && *company != "" {
		raw = *company
	} else if clientName != nil && *clientName != "" {
		raw = *clientName
	}
	safe := strings.TrimSpace(filenameUnsafe.ReplaceAllString(raw, ""))
	if safe == "" {
		safe = "NA"
	}
	return fmt.Sprintf("Quotation - Quote_ID = %s - %s - %s.pdf",
		quoteNumber, safe, createdAt.Format("2006-01-02"))
}
