package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"myfinance/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{CredentialsJSON: "{}"})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Options{SpreadsheetID: "sheet"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Options{SpreadsheetID: "sheet", CredentialsFile: t.TempDir() + "/nope.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWriteTabs_NilService(t *testing.T) {
	c := &Client{spreadsheetID: "sheet"}
	if err := c.WriteTabs(context.Background(), []sheets.Tab{{Name: "x"}}); err == nil {
		t.Fatal("expected error for uninitialized service")
	}
}

func TestQuoteSheet(t *testing.T) {
	if got := quoteSheet("Bob's Ledger"); got != "'Bob''s Ledger'" {
		t.Fatalf("got %s", got)
	}
}

// fakeSheets records the calls the client makes against the Sheets REST API.
type fakeSheets struct {
	mu       sync.Mutex
	existing []string
	calls    []string
	added    []string
	cleared  []string
	written  map[string][][]any
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(path, "/values:batchClear"):
		f.calls = append(f.calls, "clear")
		var req gsheet.BatchClearValuesRequest
		_ = json.Unmarshal(body, &req)
		f.cleared = append(f.cleared, req.Ranges...)
		_, _ = w.Write([]byte(`{}`))
	case strings.HasSuffix(path, "/values:batchUpdate"):
		f.calls = append(f.calls, "write")
		var req gsheet.BatchUpdateValuesRequest
		_ = json.Unmarshal(body, &req)
		for _, d := range req.Data {
			f.written[d.Range] = d.Values
		}
		_, _ = w.Write([]byte(`{}`))
	case strings.HasSuffix(path, ":batchUpdate"):
		f.calls = append(f.calls, "add")
		var req gsheet.BatchUpdateSpreadsheetRequest
		_ = json.Unmarshal(body, &req)
		for _, r := range req.Requests {
			f.added = append(f.added, r.AddSheet.Properties.Title)
		}
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodGet:
		f.calls = append(f.calls, "get")
		ss := gsheet.Spreadsheet{}
		for _, title := range f.existing {
			ss.Sheets = append(ss.Sheets, &gsheet.Sheet{Properties: &gsheet.SheetProperties{Title: title}})
		}
		_ = json.NewEncoder(w).Encode(ss)
	default:
		http.Error(w, "unexpected "+r.Method+" "+path, http.StatusNotFound)
	}
}

func newFakeClient(t *testing.T, f *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return NewWithService(svc, "sheet-1")
}

func TestWriteTabs_CreatesMissingAndRewrites(t *testing.T) {
	f := &fakeSheets{existing: []string{"Ledger a Expenses"}, written: map[string][][]any{}}
	c := newFakeClient(t, f)

	tabs := []sheets.Tab{
		{Name: "Ledger a Expenses", Values: [][]any{{"ID"}, {"1"}}},
		{Name: "Ledger a Summary", Values: [][]any{{"Metric", "Value"}}},
	}
	if err := c.WriteTabs(context.Background(), tabs); err != nil {
		t.Fatalf("WriteTabs: %v", err)
	}

	if got := strings.Join(f.calls, ","); got != "get,add,clear,write" {
		t.Fatalf("unexpected call order %s", got)
	}
	if len(f.added) != 1 || f.added[0] != "Ledger a Summary" {
		t.Fatalf("added %v", f.added)
	}
	if len(f.cleared) != 2 || f.cleared[0] != "'Ledger a Expenses'" {
		t.Fatalf("cleared %v", f.cleared)
	}
	rows := f.written["'Ledger a Expenses'!A1"]
	if len(rows) != 2 || rows[1][0] != "1" {
		t.Fatalf("written %v", f.written)
	}
}

func TestWriteTabs_AllTabsExist(t *testing.T) {
	f := &fakeSheets{existing: []string{"T"}, written: map[string][][]any{}}
	c := newFakeClient(t, f)
	if err := c.WriteTabs(context.Background(), []sheets.Tab{{Name: "T", Values: [][]any{{"x"}}}}); err != nil {
		t.Fatalf("WriteTabs: %v", err)
	}
	if got := strings.Join(f.calls, ","); got != "get,clear,write" {
		t.Fatalf("unexpected call order %s", got)
	}
}

func TestWriteTabs_EmptyIsNoop(t *testing.T) {
	f := &fakeSheets{written: map[string][][]any{}}
	c := newFakeClient(t, f)
	if err := c.WriteTabs(context.Background(), nil); err != nil {
		t.Fatalf("WriteTabs: %v", err)
	}
	if len(f.calls) != 0 {
		t.Fatalf("expected no calls, got %v", f.calls)
	}
}
