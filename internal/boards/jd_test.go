package boards

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jobcopilot/jobcopilot/internal/job"
)

func TestJDPlaintext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<nav>menu</nav>
			<div class="content">Edit docs.<script>track()</script> Own the style guide.</div>
		</body></html>`)
	}))
	defer srv.Close()

	got := JDPlaintext(testClient(t), srv.URL)
	if got != "Edit docs. Own the style guide." {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestPickJDTextKeepsLongDescription(t *testing.T) {
	var fetched bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fetched = true
		fmt.Fprint(w, "<html><body>live text</body></html>")
	}))
	defer srv.Close()

	desc := strings.Repeat("long enough description. ", 40)
	j := &job.Job{URL: srv.URL, Description: desc}

	got := PickJDText(testClient(t), j)
	if got != strings.TrimSpace(desc) {
		t.Fatalf("expected stored description kept")
	}
	if fetched {
		t.Fatalf("expected no live fetch for a complete description")
	}
}

func TestPickJDTextFetchesWhenShort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><main>A much longer live posting body.</main></body></html>`)
	}))
	defer srv.Close()

	j := &job.Job{URL: srv.URL, Description: "snippet"}
	got := PickJDText(testClient(t), j)
	if got != "A much longer live posting body." {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestPickJDTextPrefersLongerStored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body>x</body></html>")
	}))
	defer srv.Close()

	j := &job.Job{URL: srv.URL, Description: "a short but still longer snippet"}
	if got := PickJDText(testClient(t), j); got != "a short but still longer snippet" {
		t.Fatalf("unexpected text: %q", got)
	}
}
