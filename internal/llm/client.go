// Package llm implements the chat-completions client used by the reply and
// extraction flows. It wraps the OpenAI-compatible API behind a small
// interface-friendly surface: one Complete call plus the reply formatting
// helper that prepares text for the chunked delivery channel.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mvbarros/go-order-backend/internal/channel"
	"github.com/mvbarros/go-order-backend/internal/domain"
)

// Placeholder is returned when the provider answers successfully but with no
// usable content, so callers always have text to show.
const Placeholder = "Sem resposta gerada pela IA."

// ErrMalformedPrompt indicates the prompt violated the provider contract
// (empty message list, or a message with a blank role or content).
var ErrMalformedPrompt = errors.New("malformed prompt")

// UpstreamError reports a non-2xx response from the completion provider.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("llm upstream returned %d: %s", e.Status, e.Body)
}

var (
	reqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_requests_total",
		Help: "Completion requests by outcome.",
	}, []string{"outcome"})

	reqDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "llm_request_duration_seconds",
		Help:    "Completion request latency.",
		Buckets: prometheus.DefBuckets,
	})
)

// Config holds the provider settings for Client.
type Config struct {
	APIKey           string
	BaseURL          string
	Model            string
	MaxTokens        int
	Temperature      float64
	FrequencyPenalty float64
	Timeout          time.Duration
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	api *openai.Client
	cfg Config
}

// New constructs a Client. BaseURL may point at any compatible endpoint
// (including a test server); when empty the provider default is used.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm: API key is required")
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{api: openai.NewClientWithConfig(oc), cfg: cfg}, nil
}

// Complete sends the conversation to the provider and returns the first
// choice's text.
//
// Error semantics:
//   - ErrMalformedPrompt when turns are empty or any turn lacks role/content.
//   - *UpstreamError when the provider answers with a non-2xx status.
//   - The raw transport error otherwise.
//
// A 2xx response with no choices yields Placeholder, never an error.
func (c *Client) Complete(ctx context.Context, turns []domain.Turn) (string, error) {
	if len(turns) == 0 {
		return "", ErrMalformedPrompt
	}
	messages := make([]openai.ChatCompletionMessage, len(turns))
	for i, tr := range turns {
		if strings.TrimSpace(tr.Role) == "" || strings.TrimSpace(tr.Content) == "" {
			return "", ErrMalformedPrompt
		}
		messages[i] = openai.ChatCompletionMessage{Role: tr.Role, Content: tr.Content}
	}

	ctx, span := otel.Tracer("llm").Start(ctx, "Complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", c.cfg.Model),
		attribute.Int("llm.turns", len(turns)),
	)

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:            c.cfg.Model,
		Messages:         messages,
		MaxTokens:        c.cfg.MaxTokens,
		Temperature:      float32(c.cfg.Temperature),
		FrequencyPenalty: float32(c.cfg.FrequencyPenalty),
	})
	reqDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		reqTotal.WithLabelValues("error").Inc()
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &UpstreamError{Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", &UpstreamError{Status: reqErr.HTTPStatusCode, Body: reqErr.Error()}
		}
		return "", err
	}

	reqTotal.WithLabelValues("ok").Inc()
	if len(resp.Choices) == 0 {
		return Placeholder, nil
	}
	return resp.Choices[0].Message.Content, nil
}

// FormatReply prepares text for the chunked delivery channel: prose longer
// than chunkSize characters is split at word boundaries into segments joined
// by the channel delimiter. Sizing counts runes, not bytes, so accented text
// fills the full budget.
//
// The operation is idempotent: delimiter tokens already present are stripped
// before re-chunking, so FormatReply(FormatReply(s)) == FormatReply(s).
// Words longer than chunkSize become their own oversized chunk rather than
// being broken mid-word.
func FormatReply(text string, chunkSize int) string {
	plain := channel.Strip(text)
	if chunkSize <= 0 || utf8.RuneCountInString(plain) <= chunkSize {
		return plain
	}

	words := strings.Fields(plain)
	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	for _, w := range words {
		wLen := utf8.RuneCountInString(w)
		if curLen == 0 {
			cur.WriteString(w)
			curLen = wLen
			continue
		}
		if curLen+1+wLen > chunkSize {
			chunks = append(chunks, cur.String())
			cur.Reset()
			cur.WriteString(w)
			curLen = wLen
			continue
		}
		cur.WriteByte(' ')
		cur.WriteString(w)
		curLen += 1 + wLen
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return channel.Join(chunks)
}
