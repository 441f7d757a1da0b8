package legacy

import (
	"encoding/json"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKeys []string
		want     map[string]string
	}{
		{
			name:     "single pair",
			input:    "ID: 1234567890",
			wantKeys: []string{"ID"},
			want:     map[string]string{"ID": "1234567890"},
		},
		{
			name:     "two pairs",
			input:    "ID: 1234567890 To:12345",
			wantKeys: []string{"ID", "To"},
			want:     map[string]string{"ID": "1234567890", "To": "12345"},
		},
		{
			name:     "multi word value",
			input:    "OK: Ok Message Credit: 5",
			wantKeys: []string{"OK", "Credit"},
			want:     map[string]string{"OK": "Ok Message", "Credit": "5"},
		},
		{
			name:     "error value keeps comma",
			input:    "ERR: 301, Some Error",
			wantKeys: []string{"ERR"},
			want:     map[string]string{"ERR": "301, Some Error"},
		},
		{
			name:     "empty value",
			input:    "ID:To: 5",
			wantKeys: []string{"ID", "To"},
			want:     map[string]string{"ID": "", "To": "5"},
		},
		{
			name:     "no pattern",
			input:    "nothing to see here",
			wantKeys: nil,
			want:     map[string]string{},
		},
		{
			name:     "carriage return trimmed",
			input:    "Credit: 12.5\r",
			wantKeys: []string{"Credit"},
			want:     map[string]string{"Credit": "12.5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ParseLine(tt.input)
			keys := rec.Keys()
			if len(keys) != len(tt.wantKeys) {
				t.Fatalf("legacy:parser_test - expected keys %v, got %v", tt.wantKeys, keys)
			}
			for i, k := range tt.wantKeys {
				if keys[i] != k {
					t.Errorf("legacy:parser_test - expected key %d to be %s, got %s", i, k, keys[i])
				}
			}
			for k, v := range tt.want {
				if got := rec.Value(k); got != v {
					t.Errorf("legacy:parser_test - expected %s=%q, got %q", k, v, got)
				}
			}
		})
	}
}

func TestParseLine_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	rec := ParseLine("A: 1 B: 2 A: 3")

	keys := rec.Keys()
	if len(keys) != 2 || keys[0] != "A" || keys[1] != "B" {
		t.Fatalf("legacy:parser_test - expected keys [A B], got %v", keys)
	}
	if rec.Value("A") != "3" {
		t.Errorf("legacy:parser_test - expected A=3, got %q", rec.Value("A"))
	}
}

func TestParse_KnownLimitationWordColonTruncation(t *testing.T) {
	// A value can never contain "Word:"; the byte before the next key is lost.
	rec := ParseLine("ID: 5abc: x")

	if got := rec.Value("ID"); got != "" {
		t.Errorf("legacy:parser_test - expected ID to be empty, got %q", got)
	}
	if got := rec.Value("abc"); got != "x" {
		t.Errorf("legacy:parser_test - expected abc=x, got %q", got)
	}
}

func TestParse_SingleLine(t *testing.T) {
	set := Parse("ID: 1234567890 To:12345\nID:1234567890 To:123456", false)
	if len(set) != 1 {
		t.Fatalf("legacy:parser_test - expected 1 record, got %d", len(set))
	}
	if set[0].Value("To") != "12345" {
		t.Errorf("legacy:parser_test - expected To=12345, got %q", set[0].Value("To"))
	}
}

func TestParse_MultiLine(t *testing.T) {
	set := Parse("ID: 1234567890 To:12345\nID:1234567890 To:123456", true)
	if len(set) != 2 {
		t.Fatalf("legacy:parser_test - expected 2 records, got %d", len(set))
	}
	if set[1].Value("ID") != "1234567890" {
		t.Errorf("legacy:parser_test - expected ID=1234567890, got %q", set[1].Value("ID"))
	}
	if set[1].Value("To") != "123456" {
		t.Errorf("legacy:parser_test - expected To=123456, got %q", set[1].Value("To"))
	}
}

func TestParse_EmptyLinesYieldEmptyRecords(t *testing.T) {
	set := Parse("\nID: 1\n\nID: 2\n", true)
	if len(set) != 3 {
		t.Fatalf("legacy:parser_test - expected 3 records, got %d", len(set))
	}
	if set[1].Len() != 0 {
		t.Errorf("legacy:parser_test - expected empty middle record, got %v", set[1].Keys())
	}
}

func TestParse_TrimsOneNewlineEachSide(t *testing.T) {
	set := Parse("\n\nID: 1\n\n", true)
	if len(set) != 3 {
		t.Fatalf("legacy:parser_test - expected 3 records, got %d", len(set))
	}
	if set[0].Len() != 0 || set[2].Len() != 0 {
		t.Errorf("legacy:parser_test - expected empty outer records, got %v and %v", set[0].Keys(), set[2].Keys())
	}
	if v, _ := set[1].Get("ID"); v != "1" {
		t.Errorf("legacy:parser_test - expected ID 1, got %q", v)
	}
}

func TestParse_EmptyBody(t *testing.T) {
	set := Parse("", false)
	if len(set) != 1 || set.First().Len() != 0 {
		t.Fatalf("legacy:parser_test - expected one empty record, got %d", len(set))
	}
	if RecordSet(nil).First() == nil {
		t.Fatal("legacy:parser_test - expected First on empty set to return a record")
	}
}

func TestRecord_MarshalJSONKeepsOrder(t *testing.T) {
	rec := ParseLine("Zeta: 1 Alpha: 2")
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if string(data) != `{"Zeta":"1","Alpha":"2"}` {
		t.Errorf("legacy:parser_test - unexpected json %s", data)
	}
}

func TestSplitError(t *testing.T) {
	tests := []struct {
		input    string
		wantCode int
		wantMsg  string
	}{
		{"301, Some Error", 301, "Some Error"},
		{"001, Authentication failed", 1, "Authentication failed"},
		{"Some Error", 0, "Some Error"},
		{"abc, Some Error", 0, "abc, Some Error"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			code, msg := SplitError(tt.input)
			if code != tt.wantCode || msg != tt.wantMsg {
				t.Errorf("legacy:parser_test - expected (%d, %q), got (%d, %q)", tt.wantCode, tt.wantMsg, code, msg)
			}
		})
	}
}
