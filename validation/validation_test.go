package validation

import "testing"

type allowed map[string]bool

func (a allowed) Valid(v string) bool { return a[v] }

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("a", "  ", v)
	Required("b", "x", v)
	if v["a"] != "required" || v.Has("b") {
		t.Fatalf("unexpected violations: %v", v)
	}
}

func TestChoice(t *testing.T) {
	c := allowed{"yes": true, "no": true}
	v := Violations{}
	Choice("empty", "", c, v)
	Choice("ok", "yes", c, v)
	Choice("bad", "maybe", c, v)
	if v.Has("empty") || v.Has("ok") {
		t.Fatalf("empty and allowed values must pass: %v", v)
	}
	if v["bad"] != "invalid_choice" {
		t.Fatalf("expected invalid_choice, got %q", v["bad"])
	}

	v = Violations{"req": "required"}
	Choice("req", "maybe", c, v)
	if v["req"] != "required" {
		t.Fatalf("existing violation should be kept, got %q", v["req"])
	}
}

func TestChoices(t *testing.T) {
	c := allowed{"a": true, "b": true}
	v := Violations{}
	Choices("ok", []string{"a", "b"}, c, v)
	Choices("bad", []string{"a", "z"}, c, v)
	if v.Has("ok") || v["bad"] != "invalid_choice" {
		t.Fatalf("unexpected violations: %v", v)
	}
}

func TestMaxLength(t *testing.T) {
	v := Violations{}
	MaxLength("ape", "6201Z", 10, v)
	MaxLength("accents", "éééééééééé", 10, v)
	MaxLength("long", "12345678901", 10, v)
	if v.Has("ape") || v.Has("accents") || v["long"] != "too_long" {
		t.Fatalf("unexpected violations: %v", v)
	}
}

func TestSIREN(t *testing.T) {
	for _, in := range []string{"12345678", "1234567890", "12345678a", ""} {
		v := Violations{}
		SIREN("siren", in, v)
		if v["siren"] != "invalid_siren" {
			t.Fatalf("expected %q to be rejected", in)
		}
	}
	v := Violations{}
	SIREN("siren", "500309851", v)
	if !v.Empty() {
		t.Fatalf("expected valid siren, got %v", v)
	}
}
