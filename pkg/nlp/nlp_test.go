package nlp

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Deep   Cleaning ", "deep cleaning"},
		{"Café Déjà", "cafe deja"},
		{"Bi-Weekly", "bi-weekly"},
		{"2.5\tbaths", "2.5 baths"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContainsAnyReturnsFirstDeclaredKeyword(t *testing.T) {
	kw, ok := ContainsAny("standard or deep?", "deep", "standard")
	if !ok || kw != "deep" {
		t.Fatalf("expected deep, got %q %v", kw, ok)
	}

	if _, ok := ContainsAny("hello", "deep", "standard"); ok {
		t.Fatal("expected no match")
	}
}

func TestCapitalize(t *testing.T) {
	if got := Capitalize("single   family home"); got != "Single Family Home" {
		t.Fatalf("got %q", got)
	}
	if got := Capitalize("   "); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestLeadingFloat(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"2.5", 2.5, true},
		{"1.5 bathrooms", 1.5, true},
		{"3+", 3, true},
		{"2,5", 2.5, true},
		{"two", 2, true},
		{"about 2", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := LeadingFloat(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("LeadingFloat(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"0", 0, true},
		{"4+", 4, true},
		{"3 bedrooms", 3, true},
		{"Three", 3, true},
		{"many", 0, false},
		{"a lot", 0, false},
		{"a couple", 0, false},
		{"an extra one", 0, false},
	}

	for _, tt := range tests {
		got, ok := LeadingInt(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("LeadingInt(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
