package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizdoc/internal/storage"
)

// OCREngine recognizes the text in one image.
type OCREngine interface {
	Recognize(ctx context.Context, img File) (string, error)
}

// PDFReader reads the text layer of a PDF. PageCount must be cheap: it is
// called before any page text is read.
type PDFReader interface {
	PageCount(data []byte) (int, error)
	PageTexts(data []byte) ([]string, error)
}

// DOCXReader returns the plain text of a Word document.
type DOCXReader interface {
	Text(data []byte) (string, error)
}

// Adapter normalizes an upload batch into one plain-text blob.
type Adapter struct {
	ocr    OCREngine
	pdf    PDFReader
	docx   DOCXReader
	limits Limits

	logger        *zap.Logger
	archive       storage.BlobStore
	archivePrefix string
	now           func() time.Time
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLimits overrides DefaultLimits. Non-positive fields keep the default.
func WithLimits(l Limits) Option {
	return func(a *Adapter) {
		if l.MaxImages > 0 {
			a.limits.MaxImages = l.MaxImages
		}
		if l.MaxPDFPages > 0 {
			a.limits.MaxPDFPages = l.MaxPDFPages
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithArchive copies every file of a successfully extracted batch to the
// blob store under prefix. Archive failures are logged, never returned.
func WithArchive(bs storage.BlobStore, prefix string) Option {
	return func(a *Adapter) {
		a.archive = bs
		a.archivePrefix = prefix
	}
}

// WithPDFReader replaces the default ledongthuc-based reader.
func WithPDFReader(r PDFReader) Option {
	return func(a *Adapter) { a.pdf = r }
}

// WithDOCXReader replaces the default zip/XML reader.
func WithDOCXReader(r DOCXReader) Option {
	return func(a *Adapter) { a.docx = r }
}

// NewAdapter creates an Adapter that sends images to ocr.
func NewAdapter(ocr OCREngine, opts ...Option) *Adapter {
	a := &Adapter{
		ocr:    ocr,
		pdf:    PlainPDFReader{},
		docx:   XMLDOCXReader{},
		limits: DefaultLimits(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Limits returns the limits in effect.
func (a *Adapter) Limits() Limits { return a.limits }

// Extract validates the batch, then extracts each file in order. The first
// engine failure aborts the batch. Empty per-file results are tolerated
// and dropped.
func (a *Adapter) Extract(ctx context.Context, files []File) (string, error) {
	kinds, err := ValidateBatch(files, a.limits)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		start := time.Now()
		text, err := a.extractOne(ctx, f, kinds[i])
		if err != nil {
			a.logger.Warn("extraction failed",
				zap.String("file", f.Name),
				zap.Stringer("kind", kinds[i]),
				zap.Error(err),
			)
			return "", &ExtractionError{File: f.Name, Kind: kinds[i], Err: err}
		}

		text = strings.TrimSpace(text)
		a.logger.Debug("file extracted",
			zap.String("file", f.Name),
			zap.Stringer("kind", kinds[i]),
			zap.Int("chars", len(text)),
			zap.Duration("took", time.Since(start)),
		)
		if text != "" {
			parts = append(parts, text)
		}
	}

	a.archiveBatch(ctx, files)
	return strings.Join(parts, "\n\n"), nil
}

func (a *Adapter) extractOne(ctx context.Context, f File, kind Kind) (string, error) {
	switch kind {
	case KindImage:
		if a.ocr == nil {
			return "", fmt.Errorf("no OCR engine configured")
		}
		img := f
		img.MediaType = ResolveMediaType(f)
		return a.ocr.Recognize(ctx, img)
	case KindPDF:
		return a.extractPDF(f.Data)
	case KindDOCX:
		return a.docx.Text(f.Data)
	default:
		return "", ErrUnsupportedType
	}
}

func (a *Adapter) extractPDF(data []byte) (string, error) {
	n, err := a.pdf.PageCount(data)
	if err != nil {
		return "", err
	}
	if n > a.limits.MaxPDFPages {
		return "", fmt.Errorf("%w: document has %d pages, at most %d allowed", ErrPageLimit, n, a.limits.MaxPDFPages)
	}

	pages, err := a.pdf.PageTexts(data)
	if err != nil {
		return "", err
	}
	kept := pages[:0:0]
	for _, p := range pages {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n"), nil
}

func (a *Adapter) archiveBatch(ctx context.Context, files []File) {
	if a.archive == nil {
		return
	}
	now := a.now()
	for _, f := range files {
		key := storage.ArchiveKey(a.archivePrefix, f.Name, now)
		loc, err := a.archive.Put(ctx, key, bytes.NewReader(f.Data), ResolveMediaType(f))
		if err != nil {
			a.logger.Warn("archive upload failed", zap.String("file", f.Name), zap.Error(err))
			continue
		}
		a.logger.Info("upload archived", zap.String("file", f.Name), zap.String("location", loc))
	}
}
