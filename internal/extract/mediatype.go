package extract

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const octetStream = "application/octet-stream"

// extensionTypes covers the extensions mime.TypeByExtension may not know
// on minimal systems.
var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": DOCXMediaType,
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".heic": "image/heic",
}

// ResolveMediaType returns the media type used to categorize f. A declared
// type other than application/octet-stream wins. Otherwise the content is
// sniffed, and when sniffing does not yield a supported type the file
// extension is consulted.
func ResolveMediaType(f File) string {
	declared := baseType(f.MediaType)
	if declared != "" && declared != octetStream {
		return declared
	}

	sniffed := baseType(mimetype.Detect(f.Data).String())
	if KindOf(sniffed) != KindUnknown {
		return sniffed
	}

	if byExt := typeByExtension(f.Name); byExt != "" {
		return byExt
	}
	if sniffed != "" {
		return sniffed
	}
	return octetStream
}

func typeByExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return baseType(mime.TypeByExtension(ext))
}

func baseType(mediaType string) string {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}
