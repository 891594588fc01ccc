// Package preview renders upload candidates into images for the review
// step: images pass through as-is, PDFs are rasterized.
package preview

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/complicopilot/ccp-cli/internal/receipt"
	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// Renderer writes preview images into a directory
type Renderer struct {
	outDir string
	logger *zap.Logger
}

// NewRenderer creates a renderer writing into outDir
func NewRenderer(outDir string, logger *zap.Logger) *Renderer {
	return &Renderer{outDir: outDir, logger: logger}
}

// Render produces a preview image for the candidate and returns its
// path. Only the first PDF page is rendered; the review pane shows a
// single image.
func (r *Renderer) Render(cand receipt.Candidate) (string, error) {
	if err := os.MkdirAll(r.outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create preview directory: %w", err)
	}

	switch {
	case strings.HasPrefix(cand.MimeType, "image/"):
		path := filepath.Join(r.outDir, cand.Name)
		if err := os.WriteFile(path, cand.Data, 0644); err != nil {
			return "", fmt.Errorf("failed to write preview: %w", err)
		}
		return path, nil

	case cand.MimeType == "application/pdf":
		return r.renderPDF(cand)

	default:
		return "", fmt.Errorf("no preview for %s", cand.MimeType)
	}
}

func (r *Renderer) renderPDF(cand receipt.Candidate) (string, error) {
	doc, err := fitz.NewFromMemory(cand.Data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return "", fmt.Errorf("PDF has no pages: %s", cand.Name)
	}

	img, err := doc.Image(0)
	if err != nil {
		return "", fmt.Errorf("failed to rasterize PDF page: %w", err)
	}

	name := strings.TrimSuffix(cand.Name, filepath.Ext(cand.Name)) + ".png"
	path := filepath.Join(r.outDir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create preview file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return "", fmt.Errorf("failed to encode preview: %w", err)
	}

	r.logger.Debug("Rendered PDF preview",
		zap.String("file", cand.Name),
		zap.String("preview", path))

	return path, nil
}
