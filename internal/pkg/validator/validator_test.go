package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // valid UUIDv7
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B", // valid UUIDv7 (uppercase)
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",                                     // empty
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidEmployeeCode(t *testing.T) {
	valid := []string{"EMP-001", "mgr_7", "A1"}
	invalid := []string{"", "A", "EMP 001", "emp/1", "abcdefghijklmnopqrstuvwxyz0123456"}
	for _, code := range valid {
		if !IsValidEmployeeCode(code) {
			t.Errorf("IsValidEmployeeCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if IsValidEmployeeCode(code) {
			t.Errorf("IsValidEmployeeCode(%q) = true, want false", code)
		}
	}
}

func TestIsValidPeriod(t *testing.T) {
	cases := []struct {
		month, year int
		want        bool
	}{
		{1, 2024, true},
		{12, 2024, true},
		{0, 2024, false},
		{13, 2024, false},
		{6, 1999, false},
	}
	for _, c := range cases {
		if got := IsValidPeriod(c.month, c.year); got != c.want {
			t.Errorf("IsValidPeriod(%d, %d) = %v, want %v", c.month, c.year, got, c.want)
		}
	}
}

func TestParseDateIn(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	d, err := ParseDateIn("2024-02-29", loc)
	if err != nil {
		t.Fatalf("ParseDateIn returned error: %v", err)
	}
	if d.Location() != loc || d.Hour() != 0 || d.Day() != 29 {
		t.Errorf("ParseDateIn = %v", d)
	}
	if _, err := ParseDateIn("2024-13-01", loc); err == nil {
		t.Error("ParseDateIn accepted month 13")
	}
}

func TestParseOptionalInt(t *testing.T) {
	if v, err := ParseOptionalInt(""); v != nil || err != nil {
		t.Errorf("ParseOptionalInt(\"\") = %v, %v", v, err)
	}
	if v, err := ParseOptionalInt(" 7 "); err != nil || v == nil || *v != 7 {
		t.Errorf("ParseOptionalInt(\" 7 \") = %v, %v", v, err)
	}
	if _, err := ParseOptionalInt("x"); err == nil {
		t.Error("ParseOptionalInt(\"x\") returned no error")
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "month", Message: "must be between 1 and 12"},
		{Field: "year", Message: "is required"},
	}
	if got := errs.Error(); got != "month: must be between 1 and 12; year: is required" {
		t.Errorf("Error() = %q", got)
	}
	if m := errs.ToMap(); m["year"] != "is required" || len(m) != 2 {
		t.Errorf("ToMap() = %v", m)
	}
}
