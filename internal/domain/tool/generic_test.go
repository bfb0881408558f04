// Task 4.2: tests for the generic tools.
// Traces: FR-403
package tool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReplTool_EvaluatesArithmetic(t *testing.T) {
	rt, err := NewReplTool()
	if err != nil {
		t.Fatalf("NewReplTool returned error: %v", err)
	}

	out, err := rt.Invoke(context.Background(), "(3 + 4) * 2")
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if out != "14" {
		t.Errorf("observation = %q, want %q", out, "14")
	}
}

func TestReplTool_EvaluatesStringFunctions(t *testing.T) {
	rt, err := NewReplTool()
	if err != nil {
		t.Fatalf("NewReplTool returned error: %v", err)
	}

	out, err := rt.Invoke(context.Background(), `size("hello")`)
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if out != "5" {
		t.Errorf("observation = %q, want %q", out, "5")
	}
}

func TestReplTool_CompileErrorBecomesObservationText(t *testing.T) {
	rt, err := NewReplTool()
	if err != nil {
		t.Fatalf("NewReplTool returned error: %v", err)
	}

	out, err := rt.Invoke(context.Background(), "3 +")
	if err != nil {
		t.Fatalf("Invoke returned error: %v, want nil", err)
	}
	if !strings.HasPrefix(out, "expression error: ") {
		t.Errorf("observation = %q, want expression error text", out)
	}
}

func TestWikipediaTool_ReturnsExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/page/summary/") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(wikipediaSummary{ //nolint:errcheck
			Title:   "Alan Turing",
			Extract: "Alan Turing was an English mathematician.",
		})
	}))
	defer srv.Close()

	wt := NewWikipediaToolWithBaseURL(srv.URL)
	out, err := wt.Invoke(context.Background(), "Alan Turing")
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if out != "Alan Turing was an English mathematician." {
		t.Errorf("observation = %q", out)
	}
}

func TestWikipediaTool_MissingPageBecomesObservationText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	wt := NewWikipediaToolWithBaseURL(srv.URL)
	out, err := wt.Invoke(context.Background(), "Nonexistent Topic")
	if err != nil {
		t.Fatalf("Invoke returned error: %v, want nil", err)
	}
	if !strings.Contains(out, "No Wikipedia page found") {
		t.Errorf("observation = %q", out)
	}
}

// stubSearchClient returns a fixed digest.
type stubSearchClient struct {
	out string
	err error
}

func (s *stubSearchClient) Search(_ context.Context, _ string) (string, error) {
	return s.out, s.err
}

func TestSearchTool_ReturnsDigest(t *testing.T) {
	st := NewSearchTool(&stubSearchClient{out: "42 is the answer"})

	out, err := st.Invoke(context.Background(), "meaning of life")
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if out != "42 is the answer" {
		t.Errorf("observation = %q", out)
	}
}
