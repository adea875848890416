package extract

import "fmt"

// Limits bounds the size of an upload batch.
type Limits struct {
	MaxImages   int
	MaxPDFPages int
}

// DefaultLimits returns the stock limits: 5 images, 15 PDF pages.
func DefaultLimits() Limits {
	return Limits{MaxImages: 5, MaxPDFPages: 15}
}

// ValidateBatch checks batch composition and returns each file's kind in
// order. It does no extraction work. A batch is either 1..MaxImages images
// or exactly one PDF or DOCX.
func ValidateBatch(files []File, limits Limits) ([]Kind, error) {
	if len(files) == 0 {
		return nil, &IngestionError{Err: ErrEmptyBatch}
	}

	kinds := make([]Kind, len(files))
	var images, pdfs, docs int
	for i, f := range files {
		mt := ResolveMediaType(f)
		k := KindOf(mt)
		if k == KindUnknown {
			return nil, &IngestionError{File: f.Name, Err: fmt.Errorf("%w: %s", ErrUnsupportedType, mt)}
		}
		kinds[i] = k
		switch k {
		case KindImage:
			images++
		case KindPDF:
			pdfs++
			docs++
		case KindDOCX:
			docs++
		}
	}

	switch {
	case pdfs > 0 && len(files) > 1:
		return nil, &IngestionError{Err: ErrPDFNotAlone}
	case images > 0 && docs > 0:
		return nil, &IngestionError{Err: ErrMixedBatch}
	case docs > 1:
		return nil, &IngestionError{Err: ErrMultipleDocuments}
	case images > limits.MaxImages:
		return nil, &IngestionError{Err: fmt.Errorf("%w: %d uploaded, at most %d allowed", ErrTooManyImages, images, limits.MaxImages)}
	}
	return kinds, nil
}
