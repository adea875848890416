package extract

import (
	"context"
	"strings"

	"github.com/abhisek/quizdoc/internal/llm"
)

// PurposeOCR labels vision OCR calls in the LLM event log.
const PurposeOCR = "ocr"

const ocrSystemPrompt = `You are an OCR engine. Transcribe all readable text in the image exactly as written, preserving line breaks and mathematical notation. Output only the transcribed text with no commentary. If the image has no readable text, output nothing.`

// LLMOCR recognizes images with a vision-capable LLM provider.
type LLMOCR struct {
	provider  llm.Provider
	maxTokens int
}

// NewLLMOCR wraps a provider as an OCR engine.
func NewLLMOCR(p llm.Provider) *LLMOCR {
	return &LLMOCR{provider: p, maxTokens: 4096}
}

// Recognize sends the image as a single user message.
func (o *LLMOCR) Recognize(ctx context.Context, img File) (string, error) {
	ctx = llm.WithPurpose(ctx, PurposeOCR)
	resp, err := o.provider.Generate(ctx, llm.Request{
		System: ocrSystemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: "Transcribe the text in this image.",
			Images:  []llm.Image{{MediaType: img.MediaType, Data: img.Data}},
		}},
		MaxTokens: o.maxTokens,
	})
	if err != nil {
		return "", err
	}
	return stripFence(resp.Text()), nil
}

// stripFence removes a surrounding ``` fence some models add.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if i := strings.IndexByte(body, '\n'); i >= 0 && !strings.ContainsAny(body[:i], " \t") {
		body = body[i+1:]
	}
	return strings.TrimSpace(body)
}
