// Package remote calls a quiz generation endpoint over HTTP.
//
// The endpoint accepts {text, quizType, numberOfQuestions?, language?} and
// answers with a chat-completion body whose choices[0].message.content
// holds the completion. Failures carry an optional {"error": "..."} body.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizdoc/internal/generate"
	"github.com/abhisek/quizdoc/internal/quiz"
)

// GenericFailure is surfaced when a failed response has no usable error
// message.
const GenericFailure = "Failed to generate quiz. Please try again."

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// APIError is a non-2xx response or a transport failure.
type APIError struct {
	StatusCode int // 0 for transport failures
	Message    string
	Err        error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Err }

// ChatCompletion is the success body. Only the fields the client reads are
// declared.
type ChatCompletion struct {
	ID      string   `json:"id,omitempty"`
	Object  string   `json:"object,omitempty"`
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices"`
}

// Choice is one completion alternative.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// Message is a chat message.
type Message struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// Content is message content. A string is used as is, an array of
// content parts is joined from their text fields, and any other JSON value
// is kept as its raw JSON text.
type Content string

// contentPart is one element of an array-valued content.
type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *Content) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Content(s)
		return nil
	}
	if string(data) == "null" {
		*c = ""
		return nil
	}
	var parts []contentPart
	if err := json.Unmarshal(data, &parts); err == nil {
		var b strings.Builder
		for _, p := range parts {
			if p.Type == "" || p.Type == "text" || p.Type == "output_text" {
				b.WriteString(p.Text)
			}
		}
		*c = Content(b.String())
		return nil
	}
	*c = Content(data)
	return nil
}

// ErrorBody is the failure body.
type ErrorBody struct {
	Error string `json:"error"`
}

// Client posts generation requests to Endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for endpoint with the given request timeout.
func New(endpoint string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ generate.Generator = (*Client)(nil)

// Complete posts req and returns the raw completion content.
func (c *Client) Complete(ctx context.Context, req quiz.Request) (string, error) {
	cc, err := c.post(ctx, req)
	if err != nil {
		return "", err
	}
	return string(cc.Choices[0].Message.Content), nil
}

func (c *Client) post(ctx context.Context, req quiz.Request) (*ChatCompletion, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(hreq)
	if err != nil {
		c.logger.Warn("generation request failed", zap.String("endpoint", c.endpoint), zap.Error(err))
		return nil, &APIError{Message: GenericFailure, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: GenericFailure, Err: err}
	}

	c.logger.Debug("generation response",
		zap.String("endpoint", c.endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromBody(resp.StatusCode, data)
	}

	var cc ChatCompletion
	if err := json.Unmarshal(data, &cc); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: GenericFailure, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(cc.Choices) == 0 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: GenericFailure, Err: errors.New("response has no choices")}
	}
	return &cc, nil
}

// Generate posts req and normalizes the completion.
func (c *Client) Generate(ctx context.Context, req quiz.Request) (*generate.Result, error) {
	cc, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}
	res, err := generate.Normalize(string(cc.Choices[0].Message.Content), req)
	if err != nil {
		return nil, err
	}
	res.Model = cc.Model
	return res, nil
}

func errorFromBody(status int, data []byte) *APIError {
	var eb ErrorBody
	if err := json.Unmarshal(data, &eb); err == nil && strings.TrimSpace(eb.Error) != "" {
		return &APIError{StatusCode: status, Message: eb.Error}
	}
	return &APIError{StatusCode: status, Message: GenericFailure, Err: fmt.Errorf("HTTP %d", status)}
}
