package columns

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/JonMunkholm/sheetcheck/internal/table"
)

const (
	systemPrompt = "You are an expert in data validation for region and location mismatches."
	sampleRows   = 5
)

// ChatConfig configures an OpenAI-compatible chat completion endpoint.
type ChatConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// APIError is a non-2xx response from the chat endpoint.
type APIError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("chat api error: status=%d message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("chat api error: status=%d", e.StatusCode)
}

func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Chat asks a language model to name the two columns.
type Chat struct {
	cfg    ChatConfig
	client *http.Client
}

// NewChat returns a Chat resolver. Zero durations and attempts get defaults.
func NewChat(cfg ChatConfig) *Chat {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 4 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Chat{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Resolve implements Resolver.
func (c *Chat) Resolve(ctx context.Context, t *table.Table) (Names, error) {
	if c.cfg.BaseURL == "" || c.cfg.Model == "" {
		return Names{}, fmt.Errorf("%w: chat endpoint not configured", ErrUnresolved)
	}
	reply, err := c.complete(ctx, Prompt(t))
	if err != nil {
		return Names{}, err
	}
	return ParseNames(reply)
}

// Prompt builds the question sent to the model: the column list and a
// rendering of the first rows.
func Prompt(t *table.Table) string {
	var sample bytes.Buffer
	w := tabwriter.NewWriter(&sample, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.Columns, "\t"))
	for i, row := range t.Rows {
		if i == sampleRows {
			break
		}
		vals := make([]string, len(row))
		for j, c := range row {
			vals[j] = c.String()
		}
		fmt.Fprintln(w, strings.Join(vals, "\t"))
	}
	_ = w.Flush()

	return fmt.Sprintf(`Given these column names: %s
And sample data:
%s
Which column contains business location (country) information and which column contains regional information?
Return only the exact column names in this format: 'location_column: <name>, regional_column: <name>'`,
		strings.Join(t.Columns, ", "), sample.String())
}

// ParseNames extracts the names from a "location_column: X, regional_column: Y"
// reply. Markers are matched case-insensitively.
func ParseNames(reply string) (Names, error) {
	lower := strings.ToLower(reply)
	li := strings.Index(lower, "location_column:")
	ri := strings.Index(lower, "regional_column:")
	if li < 0 || ri < 0 {
		return Names{}, fmt.Errorf("%w: unexpected reply %q", ErrUnresolved, reply)
	}

	loc := reply[li+len("location_column:"):]
	if i := strings.Index(loc, ","); i >= 0 {
		loc = loc[:i]
	}
	reg := reply[ri+len("regional_column:"):]
	if i := strings.IndexAny(reg, "\r\n"); i >= 0 {
		reg = reg[:i]
	}

	n := Names{Location: cleanName(loc), Region: cleanName(reg)}
	if n.Location == "" || n.Region == "" {
		return Names{}, fmt.Errorf("%w: unexpected reply %q", ErrUnresolved, reply)
	}
	return n, nil
}

func cleanName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".")
	return strings.Trim(s, " '\"`*")
}

func (c *Chat) complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   256,
		Temperature: 0.1,
		TopP:        0.1,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	backoff := c.cfg.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		reply, err := c.post(ctx, payload)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.retryable() || attempt == c.cfg.MaxAttempts {
			break
		}

		wait := min(backoff, c.cfg.MaxDelay)
		if apiErr.RetryAfter > 0 {
			wait = apiErr.RetryAfter
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
		backoff *= 2
	}
	return "", lastErr
}

func (c *Chat) post(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
		return "", apiErr
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUnresolved)
	}
	return out.Choices[0].Message.Content, nil
}

// errorMessage pulls "error.message" or "message" out of an error body.
func errorMessage(body []byte) string {
	var raw struct {
		Message string `json:"message"`
		Error   *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &raw) != nil {
		return ""
	}
	if raw.Error != nil && raw.Error.Message != "" {
		return raw.Error.Message
	}
	return raw.Message
}
