package semver

import (
	"testing"
)

func TestParseTransportRef(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		wantRange string
		wantErr   bool
	}{
		{name: "no version", input: "http", wantName: "http"},
		{name: "major only", input: "http@2", wantName: "http", wantRange: "2"},
		{name: "exact version", input: "http@2.1.0", wantName: "http", wantRange: "2.1.0"},
		{name: "caret range", input: "rest@^1.0.0", wantName: "rest", wantRange: "^1.0.0"},
		{name: "comparison range", input: "rest@>=1", wantName: "rest", wantRange: ">=1"},
		{name: "upper case name", input: "REST@1", wantName: "rest", wantRange: "1"},
		{name: "trimmed whitespace", input: "  soap@2  ", wantName: "soap", wantRange: "2"},
		{name: "empty string", input: "", wantErr: true},
		{name: "empty range", input: "rest@", wantErr: true},
		{name: "bad name", input: "3rest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseTransportRef(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ref.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", ref.Name, tt.wantName)
			}
			if ref.Range != tt.wantRange {
				t.Errorf("Range = %q, want %q", ref.Range, tt.wantRange)
			}
		})
	}
}

func TestTransportRef_String(t *testing.T) {
	if got := (TransportRef{Name: "rest", Range: "^1"}).String(); got != "rest@^1" {
		t.Errorf("String() = %q, want rest@^1", got)
	}
	if got := (TransportRef{Name: "http"}).String(); got != "http" {
		t.Errorf("String() = %q, want http", got)
	}
}

func TestIsMajorOnly(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2", true},
		{"10", true},
		{"2.1.0", false},
		{"^2.1.0", false},
		{"", false},
		{"abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsMajorOnly(tt.input); got != tt.want {
				t.Errorf("IsMajorOnly(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsExactVersion(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2.1.0", true},
		{"1.0.0-beta.1", true},
		{"2", false},
		{"2.1", false},
		{"^2.1.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsExactVersion(tt.input); got != tt.want {
				t.Errorf("IsExactVersion(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractMajorFromRange(t *testing.T) {
	if got := ExtractMajorFromRange("3"); got != 3 {
		t.Errorf("ExtractMajorFromRange(3) = %d, want 3", got)
	}
	if got := ExtractMajorFromRange("^3"); got != -1 {
		t.Errorf("ExtractMajorFromRange(^3) = %d, want -1", got)
	}
}
