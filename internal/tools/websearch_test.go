package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const serperFixture = `{
	"searchParameters": {"q": "golang 1.25"},
	"searchInformation": {"totalResults": "1234"},
	"knowledgeGraph": {"title": "Go", "description": "Programming language"},
	"organic": [
		{"title": "r1", "link": "https://a", "snippet": "s1"},
		{"title": "r2", "link": "https://b", "snippet": "s2"},
		{"title": "r3", "link": "https://c", "snippet": "s3"},
		{"title": "r4", "link": "https://d", "snippet": "s4"},
		{"title": "r5", "link": "https://e", "snippet": "s5"},
		{"title": "r6", "link": "https://f", "snippet": "s6"}
	],
	"answerBox": {"answer": "42", "snippet": "ab", "title": "t"},
	"relatedSearches": [
		{"query": "q1"}, {"query": "q2"}, {"query": "q3"}, {"query": "q4"}
	]
}`

func stubSearch(t *testing.T, handler http.HandlerFunc) *WebSearch {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	w := NewWebSearch("test-key", "us", "en", "United States")
	w.apiURL = srv.URL
	return w
}

func TestWebSearch_SimplifiesResult(t *testing.T) {
	w := stubSearch(t, func(rw http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-KEY") != "test-key" {
			t.Errorf("missing API key header")
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["q"] != "golang 1.25" {
			t.Errorf("unexpected query: %v", body["q"])
		}
		rw.Write([]byte(serperFixture))
	})

	result, ok := w.Invoke(context.Background(), map[string]any{"query": "golang 1.25"}).(map[string]any)
	if !ok {
		t.Fatal("expected map result")
	}
	if result["error"] != nil {
		t.Fatalf("unexpected error: %v", result["error"])
	}

	organic := result["organic_results"].([]map[string]any)
	if len(organic) != 5 {
		t.Errorf("expected organic results truncated to 5, got %d", len(organic))
	}
	if organic[0]["title"] != "r1" || organic[0]["link"] != "https://a" {
		t.Errorf("unexpected first result: %+v", organic[0])
	}
	kg := result["knowledge_graph"].(map[string]any)
	if kg["title"] != "Go" {
		t.Errorf("unexpected knowledge graph: %+v", kg)
	}
	ab := result["answer_box"].(map[string]any)
	if ab["answer"] != "42" {
		t.Errorf("unexpected answer box: %+v", ab)
	}
	related := result["related_searches"].([]string)
	if len(related) != 3 {
		t.Errorf("expected related searches truncated to 3, got %d", len(related))
	}
}

func TestWebSearch_NumResultsClamped(t *testing.T) {
	var gotNum float64
	w := stubSearch(t, func(rw http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotNum = body["num"].(float64)
		rw.Write([]byte(`{}`))
	})

	w.Invoke(context.Background(), map[string]any{"query": "x", "num_results": float64(99)})
	if gotNum != 20 {
		t.Errorf("expected num clamped to 20, got %v", gotNum)
	}

	w.Invoke(context.Background(), map[string]any{"query": "x", "num_results": float64(0)})
	if gotNum != 1 {
		t.Errorf("expected num clamped to 1, got %v", gotNum)
	}

	w.Invoke(context.Background(), map[string]any{"query": "x"})
	if gotNum != 10 {
		t.Errorf("expected default num 10, got %v", gotNum)
	}
}

func TestWebSearch_MissingAPIKey(t *testing.T) {
	w := NewWebSearch("", "us", "en", "United States")
	result := w.Invoke(context.Background(), map[string]any{"query": "x"}).(map[string]any)
	if _, ok := result["error"].(string); !ok {
		t.Errorf("expected error payload, got %+v", result)
	}
}

func TestWebSearch_TransportFailure(t *testing.T) {
	w := NewWebSearch("key", "us", "en", "United States")
	w.apiURL = "http://127.0.0.1:1" // nothing listens here
	result := w.Invoke(context.Background(), map[string]any{"query": "x"}).(map[string]any)
	if _, ok := result["error"].(string); !ok {
		t.Errorf("expected error payload, got %+v", result)
	}
}

func TestWebSearch_APIErrorStatus(t *testing.T) {
	w := stubSearch(t, func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusForbidden)
	})
	result := w.Invoke(context.Background(), map[string]any{"query": "x"}).(map[string]any)
	if _, ok := result["error"].(string); !ok {
		t.Errorf("expected error payload for 403, got %+v", result)
	}
}

func TestWebSearch_InvalidJSON(t *testing.T) {
	w := stubSearch(t, func(rw http.ResponseWriter, r *http.Request) {
		rw.Write([]byte("not json"))
	})
	result := w.Invoke(context.Background(), map[string]any{"query": "x"}).(map[string]any)
	if _, ok := result["error"].(string); !ok {
		t.Errorf("expected error payload for bad JSON, got %+v", result)
	}
}

func TestWebSearch_CanceledContext(t *testing.T) {
	w := stubSearch(t, func(rw http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		rw.Write([]byte(`{}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := w.Invoke(ctx, map[string]any{"query": "x"}).(map[string]any)
	if _, ok := result["error"].(string); !ok {
		t.Errorf("expected error payload after cancel, got %+v", result)
	}
}
