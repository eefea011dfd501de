package auth

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+79001234567":      "+79001234567",
		"89001234567":       "+79001234567",
		"79001234567":       "+79001234567",
		"9001234567":        "+79001234567",
		"8 (900) 123-45-67": "+79001234567",
		"+7 900 123 45 67":  "+79001234567",
		"":                  "",
	}
	for input, expect := range cases {
		if got := NormalizePhone(input); got != expect {
			t.Fatalf("NormalizePhone(%q) = %q, expected %q", input, got, expect)
		}
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"+79001234567", "89001234567", "9001234567"}
	for _, input := range inputs {
		once := NormalizePhone(input)
		twice := NormalizePhone(once)
		if once != twice {
			t.Fatalf("normalization not idempotent: %q -> %q -> %q", input, once, twice)
		}
	}
}

func TestValidPhone(t *testing.T) {
	if !ValidPhone("+79001234567") {
		t.Fatal("expected canonical number to validate")
	}
	invalid := []string{"", "+7900123456", "+790012345678", "89001234567", "+89001234567", "+7900123456a"}
	for _, phone := range invalid {
		if ValidPhone(phone) {
			t.Fatalf("expected %q to be invalid", phone)
		}
	}
}
