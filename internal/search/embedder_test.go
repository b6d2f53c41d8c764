package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestComputeEmbeddings(t *testing.T) {
	var gotReq EmbedRequest

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" || r.Method != "POST" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Bad request body: %v", err)
		}

		response := `{
			"data": [
				{
					"embedding": [0.1, 0.2, 0.3, 0.4, 0.5]
				}
			]
		}`
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, response)
	}))
	defer mockServer.Close()

	t.Setenv("EMBEDDING_URL", mockServer.URL)

	embedder := NewEmbedder()

	vector, err := embedder.ComputeEmbeddings(context.Background(), "night exterior heavy schedule", true)
	if err != nil {
		t.Fatalf("ComputeEmbeddings failed: %v", err)
	}

	if len(vector) != 5 {
		t.Errorf("Expected vector length 5, got %d", len(vector))
	}
	if vector[0] != 0.1 {
		t.Errorf("Expected first element 0.1, got %f", vector[0])
	}
	if gotReq.Task != "search_query" {
		t.Errorf("Expected search_query task for query embedding, got %q", gotReq.Task)
	}

	if _, err := embedder.ComputeEmbeddings(context.Background(), "stored strategy text", false); err != nil {
		t.Fatal(err)
	}
	if gotReq.Task != "search_document" {
		t.Errorf("Expected search_document task for document embedding, got %q", gotReq.Task)
	}
}

func TestComputeEmbeddings_ErrorStatus(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer mockServer.Close()

	t.Setenv("EMBEDDING_URL", mockServer.URL)

	if _, err := NewEmbedder().ComputeEmbeddings(context.Background(), "x", true); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}
