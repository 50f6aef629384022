package trigger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"minedash/internal/providers"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	json "github.com/goccy/go-json"
)

const maxResponseSize = 1 << 20

// ErrStale is returned for a response that arrived after a newer click.
var ErrStale = errors.New("superseded by a newer update")

// Display is the text element that shows the last update result.
type Display interface {
	SetText(text string)
}

// Trigger asks the server to update a character's ledger and shows the
// server's answer.
type Trigger struct {
	client  *http.Client
	baseURL string
	display Display
	logger  providers.Logger

	seq     atomic.Uint64
	applyMu sync.Mutex
}

func New(baseURL string, display Display, logger providers.Logger, client *http.Client) *Trigger {
	if client == nil {
		client = http.DefaultClient
	}
	return &Trigger{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		display: display,
		logger:  logger,
	}
}

// Click issues GET <root>/update?character_id=<id> and returns at once. The
// returned channel yields the outcome and is closed afterwards.
//
// Only the response of the newest click is shown. An older response that
// arrives later yields ErrStale and leaves the display alone. On failure the
// display keeps its text.
func (t *Trigger) Click(ctx context.Context, id string) <-chan error {
	token := t.seq.Add(1)
	done := make(chan error, 1)

	go func() {
		defer close(done)

		text, err := t.fetch(ctx, id)
		if err != nil {
			t.logger.Errorf(providers.TypeApp, "update of %s failed: %s", id, err)
			done <- err
			return
		}
		if !t.apply(token, text) {
			t.logger.Debugf(providers.TypeApp, "dropped stale result for %s", id)
			done <- ErrStale
			return
		}
		done <- nil
	}()

	return done
}

func (t *Trigger) apply(token uint64, text string) bool {
	t.applyMu.Lock()
	defer t.applyMu.Unlock()
	if token != t.seq.Load() {
		return false
	}
	t.display.SetText(text)
	return true
}

func (t *Trigger) fetch(ctx context.Context, id string) (string, error) {
	query := url.Values{}
	query.Set("character_id", id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/update?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return "", err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Result *string `json:"result"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if payload.Result == nil {
		return "", errors.New("response has no result field")
	}
	return *payload.Result, nil
}

// TextDisplay keeps the text in memory and optionally mirrors every change
// to a writer.
type TextDisplay struct {
	mu   sync.Mutex
	text string
	out  io.Writer
}

func NewTextDisplay(initial string, out io.Writer) *TextDisplay {
	return &TextDisplay{text: initial, out: out}
}

func (d *TextDisplay) SetText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
	if d.out != nil {
		_, _ = fmt.Fprintln(d.out, text)
	}
}

func (d *TextDisplay) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}
