package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

var samplePosts = []AnalysisInput{
	{Title: "Great news", Content: ""},
	{Title: "Release notes", Content: "v2 is out"},
}

func newOpenAITestServer(t *testing.T, message map[string]interface{}, captured *map[string]interface{}) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" || r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if captured != nil {
			json.NewDecoder(r.Body).Decode(captured)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "deepseek-chat",
			"choices": []map[string]interface{}{
				{"index": 0, "finish_reason": "stop", "message": message},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIAnalyze_ToolCall(t *testing.T) {
	var body map[string]interface{}
	srv := newOpenAITestServer(t, map[string]interface{}{
		"role":    "assistant",
		"content": nil,
		"tool_calls": []map[string]interface{}{{
			"id":   "call_1",
			"type": "function",
			"function": map[string]interface{}{
				"name":      "store_analysis",
				"arguments": `{"items":[{"summary":"s"}]}`,
			},
		}},
	}, &body)

	client := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "deepseek-chat"})
	payload, err := client.Analyze(context.Background(), AnalysisRequest{Posts: samplePosts, MaxTokens: 900})

	assert.Equal(t, nil, err)
	assert.Equal(t, PayloadStructured, payload.Kind)
	assert.Equal(t, `{"items":[{"summary":"s"}]}`, payload.Body)

	assert.Equal(t, "deepseek-chat", body["model"])
	assert.Equal(t, float64(0), body["temperature"])
	assert.Equal(t, float64(900), body["max_tokens"])

	choice := body["tool_choice"].(map[string]interface{})
	assert.Equal(t, "store_analysis", choice["function"].(map[string]interface{})["name"])

	tools := body["tools"].([]interface{})
	assert.Equal(t, 1, len(tools))
	fn := tools[0].(map[string]interface{})["function"].(map[string]interface{})
	items := fn["parameters"].(map[string]interface{})["properties"].(map[string]interface{})["items"].(map[string]interface{})
	assert.Equal(t, float64(2), items["minItems"])
	assert.Equal(t, float64(2), items["maxItems"])
}

func TestOpenAIAnalyze_LegacyFunctionCall(t *testing.T) {
	srv := newOpenAITestServer(t, map[string]interface{}{
		"role":    "assistant",
		"content": nil,
		"function_call": map[string]interface{}{
			"name":      "store_analysis",
			"arguments": `{"items":[]}`,
		},
	}, nil)

	client := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "deepseek-chat"})
	payload, err := client.Analyze(context.Background(), AnalysisRequest{Posts: samplePosts, MaxTokens: 900})

	assert.Equal(t, nil, err)
	assert.Equal(t, PayloadStructured, payload.Kind)
	assert.Equal(t, `{"items":[]}`, payload.Body)
}

func TestOpenAIAnalyze_JSONModeReturnsText(t *testing.T) {
	var body map[string]interface{}
	srv := newOpenAITestServer(t, map[string]interface{}{
		"role":    "assistant",
		"content": "```json\n{\"items\":[]}\n```",
	}, &body)

	client := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "deepseek-chat", Mode: ModeJSON})
	payload, err := client.Analyze(context.Background(), AnalysisRequest{Posts: samplePosts, MaxTokens: 900})

	assert.Equal(t, nil, err)
	assert.Equal(t, PayloadText, payload.Kind)
	assert.Equal(t, "```json\n{\"items\":[]}\n```", payload.Body)

	format := body["response_format"].(map[string]interface{})
	assert.Equal(t, "json_object", format["type"])
	assert.Equal(t, nil, body["tools"])
}

func TestOpenAIAnalyze_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "deepseek-chat"})
	payload, err := client.Analyze(context.Background(), AnalysisRequest{Posts: samplePosts, MaxTokens: 900})

	assert.NotEqual(t, nil, err)
	assert.Equal(t, true, payload == nil)
}
