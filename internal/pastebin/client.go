// Package pastebin loads question banks from the two legacy hosted-paste
// services that older share links point at: GitHub gists (?gist=<id>) and
// jsonbin.io (?bin=<id>). Both are optional collaborators; a failure here
// never affects local-only functionality.
package pastebin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"quizgen/internal/quiz"
)

var (
	// ErrUnavailable is a transient service/network failure; retrying or
	// falling back to manual input is the remedy.
	ErrUnavailable = errors.New("paste service unavailable")
	// ErrNoQuiz means the paste was reachable but held no question list.
	ErrNoQuiz = errors.New("paste does not contain a quiz")
)

const (
	defaultGistBaseURL = "https://api.github.com/gists/"
	defaultBinBaseURL  = "https://api.jsonbin.io/v3/b/"
)

type Client struct {
	httpClient  *http.Client
	gistBaseURL string
	binBaseURL  string
}

func NewClient() *Client {
	return &Client{
		httpClient:  http.DefaultClient,
		gistBaseURL: defaultGistBaseURL,
		binBaseURL:  defaultBinBaseURL,
	}
}

// FetchGist loads the quiz.json file of a gist.
func (c *Client) FetchGist(ctx context.Context, id string) ([]quiz.Question, error) {
	body, err := c.fetch(ctx, c.gistBaseURL+id, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Files map[string]struct {
			Content string `json:"content"`
		} `json:"files"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoQuiz, err)
	}

	file, ok := payload.Files["quiz.json"]
	if !ok {
		return nil, fmt.Errorf("%w: gist has no quiz.json file", ErrNoQuiz)
	}

	questions, err := quiz.ParseQuestions(file.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoQuiz, err)
	}
	return questions, nil
}

// FetchBin loads a jsonbin paste. The payload is either {"quiz": [...]} or a
// bare question array.
func (c *Client) FetchBin(ctx context.Context, id string) ([]quiz.Question, error) {
	body, err := c.fetch(ctx, c.binBaseURL+id, map[string]string{"X-Bin-Meta": "false"})
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Quiz json.RawMessage `json:"quiz"`
	}
	raw := json.RawMessage(body)
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Quiz != nil {
		raw = wrapped.Quiz
	}

	questions, err := quiz.ParseQuestions(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoQuiz, err)
	}
	return questions, nil
}

func (c *Client) fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, nil
}
