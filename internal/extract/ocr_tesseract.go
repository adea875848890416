package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// TesseractOCR shells out to the tesseract CLI.
type TesseractOCR struct {
	Path    string // binary name or path, default "tesseract"
	Lang    string // -l argument, default "eng"
	Timeout time.Duration
}

// NewTesseractOCR returns an engine with stock settings.
func NewTesseractOCR(path, lang string, timeout time.Duration) *TesseractOCR {
	if path == "" {
		path = "tesseract"
	}
	if lang == "" {
		lang = "eng"
	}
	return &TesseractOCR{Path: path, Lang: lang, Timeout: timeout}
}

// Recognize writes the image to a temp file and runs
// `tesseract <file> stdout -l <lang>`.
func (t *TesseractOCR) Recognize(ctx context.Context, img File) (string, error) {
	bin, err := exec.LookPath(t.Path)
	if err != nil {
		return "", fmt.Errorf("tesseract not found: %w", err)
	}

	f, err := os.CreateTemp("", "quizdoc-ocr-*"+filepath.Ext(img.Name))
	if err != nil {
		return "", err
	}
	defer func() {
		f.Close()
		os.Remove(f.Name())
	}()
	if _, err := f.Write(img.Data); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	args := []string{f.Name(), "stdout"}
	if t.Lang != "" {
		args = append(args, "-l", t.Lang)
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("tesseract: %s", msg)
	}
	return out.String(), nil
}
