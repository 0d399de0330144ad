package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// httpProvider is the shared shape behind the openai/hf/cohere/voyage
// adapters: a REST embeddings endpoint taking a model + input text and
// returning one vector per input. Each concrete provider only supplies the
// request/response encoding, following the pattern of a plain net/http
// client per provider rather than a shared SDK, same as the request
// construction in the example pack's OpenAI-compatible embeddings client.
type httpProvider struct {
	name    string
	model   string
	dim     int
	client  *http.Client
	request func(baseURL, apiKey, model string, texts []string) (*http.Request, error)
	parse   func(body []byte) ([][]float32, error)
	baseURL string
	apiKey  string
}

var _ Embedder = (*httpProvider)(nil)

func (p *httpProvider) Dimension() int    { return p.dim }
func (p *httpProvider) ModelName() string { return p.name + ":" + p.model }

func (p *httpProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (p *httpProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%s: no API key configured", p.name)
	}
	req, err := p.request(p.baseURL, p.apiKey, p.model, texts)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", p.name, err)
	}
	req = req.WithContext(ctx)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: HTTP %d: %s", p.name, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	vecs, err := p.parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s: parse response: %w", p.name, err)
	}
	if p.dim == 0 && len(vecs) > 0 {
		p.dim = len(vecs[0])
	}
	return vecs, nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// NewOpenAI builds an OpenAI-compatible embeddings provider
// (POST {baseURL}/embeddings, body {"model","input"}).
func NewOpenAI(apiKey, baseURL, model string, dim int) Embedder {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &httpProvider{
		name: "openai", model: model, dim: dim, apiKey: apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
		request: func(base, key, model string, texts []string) (*http.Request, error) {
			body, _ := json.Marshal(map[string]any{"model": model, "input": texts})
			req, err := http.NewRequest(http.MethodPost, base+"/embeddings", bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+key)
			return req, nil
		},
		parse: func(body []byte) ([][]float32, error) {
			var parsed struct {
				Data []struct {
					Embedding []float64 `json:"embedding"`
				} `json:"data"`
			}
			if err := json.Unmarshal(body, &parsed); err != nil {
				return nil, err
			}
			out := make([][]float32, len(parsed.Data))
			for i, d := range parsed.Data {
				out[i] = to32(d.Embedding)
			}
			return out, nil
		},
	}
}

// NewCohere builds a Cohere embeddings provider
// (POST {baseURL}/embed, body {"model","texts","input_type"}).
func NewCohere(apiKey, baseURL, model string, dim int) Embedder {
	if baseURL == "" {
		baseURL = "https://api.cohere.com/v1"
	}
	return &httpProvider{
		name: "cohere", model: model, dim: dim, apiKey: apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
		request: func(base, key, model string, texts []string) (*http.Request, error) {
			body, _ := json.Marshal(map[string]any{
				"model": model, "texts": texts, "input_type": "search_document",
			})
			req, err := http.NewRequest(http.MethodPost, base+"/embed", bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+key)
			return req, nil
		},
		parse: func(body []byte) ([][]float32, error) {
			var parsed struct {
				Embeddings [][]float64 `json:"embeddings"`
			}
			if err := json.Unmarshal(body, &parsed); err != nil {
				return nil, err
			}
			out := make([][]float32, len(parsed.Embeddings))
			for i, e := range parsed.Embeddings {
				out[i] = to32(e)
			}
			return out, nil
		},
	}
}

// NewVoyage builds a Voyage AI embeddings provider
// (POST {baseURL}/embeddings, body {"model","input"}).
func NewVoyage(apiKey, baseURL, model string, dim int) Embedder {
	if baseURL == "" {
		baseURL = "https://api.voyageai.com/v1"
	}
	return &httpProvider{
		name: "voyage", model: model, dim: dim, apiKey: apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
		request: func(base, key, model string, texts []string) (*http.Request, error) {
			body, _ := json.Marshal(map[string]any{"model": model, "input": texts})
			req, err := http.NewRequest(http.MethodPost, base+"/embeddings", bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+key)
			return req, nil
		},
		parse: func(body []byte) ([][]float32, error) {
			var parsed struct {
				Data []struct {
					Embedding []float64 `json:"embedding"`
				} `json:"data"`
			}
			if err := json.Unmarshal(body, &parsed); err != nil {
				return nil, err
			}
			out := make([][]float32, len(parsed.Data))
			for i, d := range parsed.Data {
				out[i] = to32(d.Embedding)
			}
			return out, nil
		},
	}
}

// NewHuggingFace builds a provider against the HF Inference API's
// feature-extraction pipeline (POST {baseURL}/{model}, body {"inputs"} with
// the text list; HF_TOKEN supplies the bearer credential).
func NewHuggingFace(token, baseURL, model string, dim int) Embedder {
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co/pipeline/feature-extraction"
	}
	return &httpProvider{
		name: "hf", model: model, dim: dim, apiKey: token,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
		request: func(base, key, model string, texts []string) (*http.Request, error) {
			body, _ := json.Marshal(map[string]any{"inputs": texts})
			req, err := http.NewRequest(http.MethodPost, base+"/"+model, bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+key)
			return req, nil
		},
		parse: func(body []byte) ([][]float32, error) {
			var parsed [][]float64
			if err := json.Unmarshal(body, &parsed); err != nil {
				return nil, err
			}
			out := make([][]float32, len(parsed))
			for i, e := range parsed {
				out[i] = to32(e)
			}
			return out, nil
		},
	}
}

func to32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
