package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"costs/internal/core"
)

func sampleCost() core.Cost {
	return core.Cost{
		ID: 7,
		CostItem: core.CostItem{
			Sum:         decimal.RequireFromString("12.5"),
			Currency:    core.USD,
			Category:    core.Food,
			Description: "lunch",
			Year:        2024,
			Month:       3,
			Day:         5,
		},
	}
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{SheetName: "Costs"})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCredentialsJSON(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	if _, err := credentialsJSON(Config{}); err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected missing credentials error, got %v", err)
	}

	got, err := credentialsJSON(Config{ServiceAccountJSON: ` {"type":"service_account"} `, ServiceAccountFile: "/nope"})
	if err != nil || string(got) != `{"type":"service_account"}` {
		t.Fatalf("inline JSON should win: %q, %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"from":"file"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err = credentialsJSON(Config{ServiceAccountFile: path})
	if err != nil || string(got) != `{"from":"file"}` {
		t.Fatalf("file credentials: %q, %v", got, err)
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)
	if _, err := credentialsJSON(Config{}); err != nil {
		t.Fatalf("GOOGLE_APPLICATION_CREDENTIALS fallback: %v", err)
	}

	if _, err := credentialsJSON(Config{ServiceAccountFile: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Fatal("expected read error for missing file")
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		baseName string
		year     int
		expected string
	}{
		{"Costs", 2025, "2025 Costs"},
		{"", 2023, ""},
		{"Test Sheet", 2022, "2022 Test Sheet"},
		{"2025 Already Prefixed", 2024, "2025 Already Prefixed"},
	}

	for _, tt := range tests {
		if got := yearPrefixedName(tt.baseName, tt.year); got != tt.expected {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.baseName, tt.year, got, tt.expected)
		}
	}
}

func TestCostRow(t *testing.T) {
	row := costRow(sampleCost())
	want := []any{"2024-03-05", "lunch", "12.50", "USD", "Food", int64(7)}
	if len(row) != len(want) {
		t.Fatalf("row has %d cells, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("cell %d = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestClient_Append(t *testing.T) {
	var (
		gotPath  string
		gotQuery map[string]string
		gotBody  gsheet.ValueRange
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"valueInputOption": r.URL.Query().Get("valueInputOption"),
			"insertDataOption": r.URL.Query().Get("insertDataOption"),
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"updates":{"updatedRange":"2024 Costs!A2:F2"}}`))
	}))
	defer srv.Close()

	c, err := New(context.Background(),
		Config{SpreadsheetID: "sheet-id", SheetName: "Costs", PerYearSheets: true},
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ref, err := c.Append(context.Background(), sampleCost())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ref != "2024 Costs!A2:F2" {
		t.Errorf("ref = %q", ref)
	}
	if !strings.Contains(gotPath, "/spreadsheets/sheet-id/values/2024 Costs!A:F") || !strings.HasSuffix(gotPath, ":append") {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotQuery["valueInputOption"] != "USER_ENTERED" || gotQuery["insertDataOption"] != "INSERT_ROWS" {
		t.Errorf("unexpected query %v", gotQuery)
	}
	if len(gotBody.Values) != 1 || gotBody.Values[0][1] != "lunch" || gotBody.Values[0][2] != "12.50" {
		t.Errorf("unexpected body %+v", gotBody.Values)
	}
}

func TestClient_AppendWithoutService(t *testing.T) {
	c := &Client{spreadsheetID: "x", sheetName: "Costs"}
	if _, err := c.Append(context.Background(), sampleCost()); err == nil {
		t.Fatal("expected error for uninitialized service")
	}
}
