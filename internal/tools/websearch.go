package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

const defaultSerperURL = "https://google.serper.dev/search"

// searchTimeout is a hard cap on one search round-trip. On expiry the tool
// degrades to an error payload instead of blocking the run.
const searchTimeout = 30 * time.Second

// WebSearch queries the Serper Google-search API and returns a trimmed-down
// result set the model can digest without blowing the context budget.
type WebSearch struct {
	apiKey   string
	apiURL   string
	gl       string
	hl       string
	location string
	http     *http.Client
}

func NewWebSearch(apiKey, gl, hl, location string) *WebSearch {
	return &WebSearch{
		apiKey:   apiKey,
		apiURL:   defaultSerperURL,
		gl:       gl,
		hl:       hl,
		location: location,
		http:     &http.Client{Timeout: searchTimeout},
	}
}

func (w *WebSearch) Name() string { return "web_search" }

func (w *WebSearch) Description() string {
	return "Search the web via the Google search API for up-to-date information. " +
		"Use it for live news, company facts, technical documentation, and anything " +
		"your training data may be stale on. The input should be a concrete search query."
}

func (w *WebSearch) Schema() map[string]any {
	return objReq(map[string]any{
		"query":       prop("string", "Search query keywords or question"),
		"num_results": prop("integer", "Number of results to request, 1-20 (default 10)"),
	}, "query")
}

type serperRequest struct {
	Q        string `json:"q"`
	Num      int64  `json:"num"`
	GL       string `json:"gl"`
	HL       string `json:"hl"`
	Location string `json:"location"`
}

func (w *WebSearch) Invoke(ctx context.Context, args map[string]any) any {
	if w.apiKey == "" {
		return map[string]any{"error": "SERPER_API_KEY is not set"}
	}

	query, _ := getString(args, "query")
	num, ok := getInt(args, "num_results")
	if !ok {
		num = 10
	}
	if num < 1 {
		num = 1
	}
	if num > 20 {
		num = 20
	}

	body, _ := json.Marshal(serperRequest{
		Q:        query,
		Num:      num,
		GL:       w.gl,
		HL:       w.hl,
		Location: w.location,
	})

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", w.apiURL, bytes.NewReader(body))
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	req.Header.Set("X-API-KEY", w.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("web_search timeout for %q", query)
			return map[string]any{"error": "timeout"}
		}
		log.Printf("web_search failed: %v", err)
		return map[string]any{"error": err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	if resp.StatusCode != 200 {
		return map[string]any{"error": "search API returned " + resp.Status}
	}
	if !gjson.ValidBytes(raw) {
		return map[string]any{"error": "search API returned invalid JSON"}
	}

	return simplify(raw)
}

// simplify extracts the pieces worth feeding back to the model: top-5
// organic hits, the knowledge panel, the answer box, and up to 3 related
// queries. Everything else in the Serper payload is dropped to bound token
// cost.
func simplify(raw []byte) map[string]any {
	root := gjson.ParseBytes(raw)

	simplified := map[string]any{
		"query":         root.Get("searchParameters.q").String(),
		"total_results": root.Get("searchInformation.totalResults").Value(),
	}

	if kg := root.Get("knowledgeGraph"); kg.Exists() {
		simplified["knowledge_graph"] = map[string]any{
			"title":       kg.Get("title").String(),
			"description": kg.Get("description").String(),
			"attributes":  kg.Get("attributes").Value(),
		}
	}

	var organic []map[string]any
	for i, item := range root.Get("organic").Array() {
		if i >= 5 {
			break
		}
		organic = append(organic, map[string]any{
			"title":   item.Get("title").String(),
			"link":    item.Get("link").String(),
			"snippet": item.Get("snippet").String(),
		})
	}
	if len(organic) > 0 {
		simplified["organic_results"] = organic
	}

	if ab := root.Get("answerBox"); ab.Exists() {
		simplified["answer_box"] = map[string]any{
			"answer":  ab.Get("answer").String(),
			"snippet": ab.Get("snippet").String(),
			"title":   ab.Get("title").String(),
		}
	}

	var related []string
	for i, q := range root.Get("relatedSearches").Array() {
		if i >= 3 {
			break
		}
		related = append(related, q.Get("query").String())
	}
	if len(related) > 0 {
		simplified["related_searches"] = related
	}

	return simplified
}
