package extract

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizdoc/internal/storage"
)

func TestAdapter_ImagesInOrder(t *testing.T) {
	ocr := &fakeOCR{text: map[string]string{
		"1.png": "  first page  ",
		"2.png": "",
		"3.png": "third\npage",
	}}
	a := NewAdapter(ocr)

	text, err := a.Extract(context.Background(), []File{imageFile("1.png"), imageFile("2.png"), imageFile("3.png")})
	require.NoError(t, err)
	assert.Equal(t, "first page\n\nthird\npage", text)
	assert.Equal(t, []string{"1.png", "2.png", "3.png"}, ocr.calls)
}

func TestAdapter_OCRFailureAbortsBatch(t *testing.T) {
	ocr := &fakeOCR{
		text: map[string]string{"1.png": "ok", "3.png": "never read"},
		fail: map[string]error{"2.png": errEngine},
	}
	a := NewAdapter(ocr)

	text, err := a.Extract(context.Background(), []File{imageFile("1.png"), imageFile("2.png"), imageFile("3.png")})
	require.Error(t, err)
	assert.Empty(t, text)
	assert.ErrorIs(t, err, errEngine)

	var ee *ExtractionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "2.png", ee.File)
	assert.Equal(t, KindImage, ee.Kind)
	assert.Equal(t, []string{"1.png", "2.png"}, ocr.calls, "no file after the failure is processed")
}

func TestAdapter_RejectsBeforeExtracting(t *testing.T) {
	ocr := &fakeOCR{}
	a := NewAdapter(ocr)
	files := []File{imageFile("1.png"), {Name: "a.pdf", MediaType: "application/pdf"}}

	_, err := a.Extract(context.Background(), files)
	var ie *IngestionError
	require.True(t, errors.As(err, &ie))
	assert.Empty(t, ocr.calls)
}

func TestAdapter_PDFPageLimitProbesFirst(t *testing.T) {
	reader := &countingPDF{pages: 20, texts: []string{"x"}}
	a := NewAdapter(nil, WithPDFReader(reader))

	text, err := a.Extract(context.Background(), []File{{Name: "long.pdf", MediaType: "application/pdf"}})
	require.Error(t, err)
	assert.Empty(t, text)
	assert.ErrorIs(t, err, ErrPageLimit)
	assert.Contains(t, err.Error(), "20 pages")

	var ee *ExtractionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, KindPDF, ee.Kind)
	assert.Zero(t, reader.textReads, "page text must not be read past the limit")
}

func TestAdapter_PDFAtLimitIsRead(t *testing.T) {
	reader := &countingPDF{pages: 15, texts: []string{"one", "  ", "", "two"}}
	a := NewAdapter(nil, WithPDFReader(reader))

	text, err := a.Extract(context.Background(), []File{{Name: "ok.pdf", MediaType: "application/pdf"}})
	require.NoError(t, err)
	assert.Equal(t, "one\n\ntwo", text)
	assert.Equal(t, 1, reader.textReads)
}

func TestAdapter_WithLimits(t *testing.T) {
	reader := &countingPDF{pages: 4}
	a := NewAdapter(nil, WithPDFReader(reader), WithLimits(Limits{MaxPDFPages: 3}))
	assert.Equal(t, 5, a.Limits().MaxImages)

	_, err := a.Extract(context.Background(), []File{{Name: "x.pdf", MediaType: "application/pdf"}})
	assert.ErrorIs(t, err, ErrPageLimit)
}

func TestAdapter_RealPDF(t *testing.T) {
	a := NewAdapter(nil)
	data := buildPDF(t, "Hello", "", "World")

	text, err := a.Extract(context.Background(), []File{{Name: "doc.pdf", MediaType: "application/pdf", Data: data}})
	require.NoError(t, err)
	assert.Contains(t, text, "Hello")
	assert.Contains(t, text, "World")
	assert.NotContains(t, text, "\n\n\n\n", "blank pages are dropped")
}

func TestAdapter_DOCX(t *testing.T) {
	a := NewAdapter(nil)
	data := buildDOCX(t, `<w:p><w:r><w:t>Photo</w:t></w:r><w:r><w:t>synthesis   converts</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t xml:space="preserve"> light </w:t><w:tab/><w:t>energy</w:t></w:r></w:p>`)

	text, err := a.Extract(context.Background(), []File{{Name: "bio.docx", MediaType: DOCXMediaType, Data: data}})
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis converts light energy", text)
}

func TestAdapter_CorruptDOCX(t *testing.T) {
	a := NewAdapter(nil)
	_, err := a.Extract(context.Background(), []File{{Name: "bad.docx", MediaType: DOCXMediaType, Data: []byte("nope")}})

	var ee *ExtractionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, KindDOCX, ee.Kind)
}

func TestAdapter_CanceledContext(t *testing.T) {
	ocr := &fakeOCR{}
	a := NewAdapter(ocr)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Extract(ctx, []File{imageFile("1.png")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ocr.calls)
}

type memBlobs struct {
	puts map[string]string
	err  error
}

func (m *memBlobs) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	b, _ := io.ReadAll(r)
	m.puts[key] = string(b)
	return "mem://" + key, nil
}

func (m *memBlobs) Get(context.Context, string) (io.ReadCloser, error) { return nil, nil }
func (m *memBlobs) URL(_ context.Context, key string) (string, error)  { return "mem://" + key, nil }

var _ storage.BlobStore = (*memBlobs)(nil)

func TestAdapter_ArchivesAfterSuccess(t *testing.T) {
	blobs := &memBlobs{puts: map[string]string{}}
	ocr := &fakeOCR{text: map[string]string{"a.png": "text"}}
	a := NewAdapter(ocr, WithArchive(blobs, "uploads"))
	a.now = func() time.Time { return time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC) }

	_, err := a.Extract(context.Background(), []File{imageFile("a.png")})
	require.NoError(t, err)
	require.Len(t, blobs.puts, 1)
	for key, body := range blobs.puts {
		assert.True(t, strings.HasPrefix(key, "uploads/2026/03/04/"), key)
		assert.True(t, strings.HasSuffix(key, "a.png"), key)
		assert.Equal(t, string(pngHeader), body)
	}
}

func TestAdapter_ArchiveFailureIsNotFatal(t *testing.T) {
	blobs := &memBlobs{err: errors.New("bucket gone")}
	ocr := &fakeOCR{text: map[string]string{"a.png": "text"}}
	a := NewAdapter(ocr, WithArchive(blobs, "uploads"))

	text, err := a.Extract(context.Background(), []File{imageFile("a.png")})
	require.NoError(t, err)
	assert.Equal(t, "text", text)
}

func TestAdapter_NoArchiveOnFailure(t *testing.T) {
	blobs := &memBlobs{puts: map[string]string{}}
	ocr := &fakeOCR{fail: map[string]error{"a.png": errEngine}}
	a := NewAdapter(ocr, WithArchive(blobs, "uploads"))

	_, err := a.Extract(context.Background(), []File{imageFile("a.png")})
	require.Error(t, err)
	assert.Empty(t, blobs.puts)
}
