package pastebin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const questionJSON = `[{"question": "2+2?", "choices": ["3", "4", "5", "6"], "answer": 1}]`

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := &Client{
		httpClient:  server.Client(),
		gistBaseURL: server.URL + "/gists/",
		binBaseURL:  server.URL + "/b/",
	}
	return client, server
}

func TestFetchGist(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gists/abc123" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprintf(w, `{"files": {"quiz.json": {"content": %q}}}`, questionJSON)
	}))
	defer server.Close()

	questions, err := client.FetchGist(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("FetchGist failed: %v", err)
	}
	if len(questions) != 1 || questions[0].Answer != 1 {
		t.Fatalf("unexpected questions: %+v", questions)
	}
}

func TestFetchGistWithoutQuizFile(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"files": {"notes.txt": {"content": "hi"}}}`)
	}))
	defer server.Close()

	if _, err := client.FetchGist(context.Background(), "abc123"); !errors.Is(err, ErrNoQuiz) {
		t.Fatalf("expected ErrNoQuiz, got %v", err)
	}
}

func TestFetchBinWrappedPayload(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Bin-Meta") != "false" {
			t.Fatalf("missing X-Bin-Meta header")
		}
		fmt.Fprintf(w, `{"quiz": %s}`, questionJSON)
	}))
	defer server.Close()

	questions, err := client.FetchBin(context.Background(), "bin1")
	if err != nil {
		t.Fatalf("FetchBin failed: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("unexpected questions: %+v", questions)
	}
}

func TestFetchBinBareArray(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, questionJSON)
	}))
	defer server.Close()

	questions, err := client.FetchBin(context.Background(), "bin1")
	if err != nil {
		t.Fatalf("FetchBin failed: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("unexpected questions: %+v", questions)
	}
}

func TestFetchErrorStatusIsTransient(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := client.FetchGist(context.Background(), "abc123"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := client.FetchBin(context.Background(), "bin1"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFetchInvalidQuizContent(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"files": {"quiz.json": {"content": "[{\"question\": \"bad\", \"choices\": [\"only one\"], \"answer\": 0}]"}}}`)
	}))
	defer server.Close()

	if _, err := client.FetchGist(context.Background(), "abc123"); !errors.Is(err, ErrNoQuiz) {
		t.Fatalf("expected ErrNoQuiz for invalid bank, got %v", err)
	}
}
