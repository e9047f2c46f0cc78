package utils

import "testing"

func TestValidateCPF(t *testing.T) {
	cases := []struct {
		cpf   string
		valid bool
	}{
		{"52998224725", true},
		{"529.982.247-25", true},
		{"15350946056", true},
		{"52998224724", false},
		{"11111111111", false},
		{"00000000000", false},
		{"1234567890", false},
		{"123456789012", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidateCPF(tc.cpf); got != tc.valid {
			t.Errorf("ValidateCPF(%q) = %v, want %v", tc.cpf, got, tc.valid)
		}
	}
}

func TestNormalizeCPF(t *testing.T) {
	if got := NormalizeCPF("529.982.247-25"); got != "52998224725" {
		t.Errorf("NormalizeCPF = %q, want digits only", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Loja Centro", "loja-centro"},
		{"  Mega   Phone!  ", "mega-phone"},
		{"CredFácil", "credfcil"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
