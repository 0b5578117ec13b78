package otp

import (
	"testing"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := Generate()
		if len(code) != CodeLength {
			t.Fatalf("expected %d digits, got %q", CodeLength, code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit character in code %q", code)
			}
		}
		seen[code] = true
	}
	// 100次生成不应全部相同
	if len(seen) < 2 {
		t.Fatalf("expected varied codes, got %d unique", len(seen))
	}
}
