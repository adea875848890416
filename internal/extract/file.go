// Package extract turns a batch of uploaded files into one plain-text
// document. Images go through an OCR engine, PDFs through their text
// layer and DOCX files through their document XML.
package extract

import "strings"

// DOCXMediaType is the Office Open XML word-processing document type.
const DOCXMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// File is one uploaded file. MediaType is the declared type and may be
// empty, in which case it is sniffed from Data and Name.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

// Kind is the ingestion category of a file.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindPDF
	KindDOCX
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindPDF:
		return "pdf"
	case KindDOCX:
		return "docx"
	default:
		return "unknown"
	}
}

// IsDocument reports whether k is a single-document kind (PDF or DOCX).
func (k Kind) IsDocument() bool {
	return k == KindPDF || k == KindDOCX
}

// KindOf categorizes a media type. Parameters such as "; charset=" are
// ignored.
func KindOf(mediaType string) Kind {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch {
	case strings.HasPrefix(mt, "image/"):
		return KindImage
	case mt == "application/pdf":
		return KindPDF
	case mt == DOCXMediaType:
		return KindDOCX
	default:
		return KindUnknown
	}
}
