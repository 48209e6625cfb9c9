package handlers_test

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestIndexListsOperations(t *testing.T) {
	app, _ := newApp(t, "")
	status, body := do(t, app, httptest.NewRequest("GET", "/", nil))
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	for _, want := range []string{"/reports/golden-books", "POST /admin/reports/increase-prices", "cutoff year 2010"} {
		if !strings.Contains(body, want) {
			t.Fatalf("index missing %q; body=%s", want, body)
		}
	}
}

func TestReportPlainText(t *testing.T) {
	app, _ := newApp(t, "")
	var status int
	var body string
	entries := captureLogs(t, func() {
		status, body = do(t, app, httptest.NewRequest("GET", "/reports/golden-books", nil))
	})
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if body != "Carrie\nIt" {
		t.Fatalf("unexpected report body %q", body)
	}
	e, ok := findAction(entries, "report.run")
	if !ok {
		t.Fatal("expected report.run log entry")
	}
	if e.ReqID == "" {
		t.Fatal("report.run entry missing request id")
	}
}

func TestReportByNumberWithArgument(t *testing.T) {
	app, _ := newApp(t, "")
	q := url.Values{"arg": {"Romance HORROR"}}
	status, body := do(t, app, httptest.NewRequest("GET", "/reports/5?"+q.Encode(), nil))
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	want := "And Then There Were None\nCarrie\nDoctor Sleep\nEmma\nIt\nPride and Prejudice\nThe Shining"
	if body != want {
		t.Fatalf("got %q, want %q", body, want)
	}
}

func TestReportInputErrors(t *testing.T) {
	app, _ := newApp(t, "")
	cases := []struct {
		path   string
		status int
		want   string
	}{
		{"/reports/not-released-in", 400, "missing argument"},
		{"/reports/not-released-in?arg=soon", 400, "malformed input"},
		{"/reports/released-before?arg=2000-01-01", 400, "dd-MM-yyyy"},
		{"/reports/drop-tables", 404, "Unknown report"},
		{"/reports/99", 404, "Unknown report"},
		{"/reports/increase-prices", 405, "POST /admin/reports/increase-prices"},
	}
	for _, tc := range cases {
		status, body := do(t, app, httptest.NewRequest("GET", tc.path, nil))
		if status != tc.status {
			t.Fatalf("%s: expected %d, got %d (%s)", tc.path, tc.status, status, body)
		}
		if !strings.Contains(body, tc.want) {
			t.Fatalf("%s: body %q missing %q", tc.path, body, tc.want)
		}
	}
}

func TestMutationViaGetIsLogged(t *testing.T) {
	app, _ := newApp(t, "")
	entries := captureLogs(t, func() {
		do(t, app, httptest.NewRequest("GET", "/reports/remove-books", nil))
	})
	e, ok := findAction(entries, "report.mutation.get")
	if !ok {
		t.Fatal("expected report.mutation.get entry")
	}
	if e.Level != "warn" || e.Fields["op"] != "remove-books" {
		t.Fatalf("unexpected entry %+v", e)
	}
}

func TestStoreFailureIsFriendly(t *testing.T) {
	app, db := newApp(t, "")
	db.Close()

	var status int
	var body string
	entries := captureLogs(t, func() {
		status, body = do(t, app, httptest.NewRequest("GET", "/reports/books-by-price", nil))
	})
	if status != 500 {
		t.Fatalf("expected 500, got %d", status)
	}
	if !strings.Contains(body, "Something went wrong") {
		t.Fatalf("friendly message missing; body=%s", body)
	}
	if strings.Contains(body, "sql") || strings.Contains(body, "closed") {
		t.Fatalf("internal details leaked to user; body=%s", body)
	}
	e, ok := findAction(entries, "report.books-by-price.fail")
	if !ok || e.Err == "" {
		t.Fatalf("expected error entry with cause, got %+v", entries)
	}
}

func TestNotFoundAndHealth(t *testing.T) {
	app, _ := newApp(t, "")
	status, body := do(t, app, httptest.NewRequest("GET", "/nowhere", nil))
	if status != 404 || !strings.Contains(body, "Page not found") {
		t.Fatalf("expected rendered 404, got %d %s", status, body)
	}
	status, body = do(t, app, httptest.NewRequest("GET", "/healthz", nil))
	if status != 200 || body != `{"ok":true}` {
		t.Fatalf("unexpected health response %d %s", status, body)
	}
}

func TestSecurityHeaders(t *testing.T) {
	app, _ := newApp(t, "")
	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("test request failed: %v", err)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("helmet headers missing")
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("request id header missing")
	}
}
