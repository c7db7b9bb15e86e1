package logger

import "testing"

func TestSanitizeKVsRedactsSensitiveKeys(t *testing.T) {
	got := sanitizeKVs([]interface{}{
		"email", "jane@example.com",
		"card_number", "4242424242424242",
		"order_number", "LM-ABCDEF12",
	})
	if len(got) != 6 {
		t.Fatalf("unexpected length: %d", len(got))
	}
	if got[1] != "[REDACTED]" {
		t.Fatalf("email not redacted: %v", got[1])
	}
	if got[3] != "[REDACTED]" {
		t.Fatalf("card_number not redacted: %v", got[3])
	}
	if got[5] != "LM-ABCDEF12" {
		t.Fatalf("order_number should pass through: %v", got[5])
	}
}

func TestSanitizeKVsHashesUserID(t *testing.T) {
	got := sanitizeKVs([]interface{}{"user_id", "7d0f6f0e-2f7c-4a51-9a53-0b3a3d1a7e11"})
	s, ok := got[1].(string)
	if !ok || len(s) != len("hash:")+12 || s[:5] != "hash:" {
		t.Fatalf("user_id not hashed: %v", got[1])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	got := sanitizeKVs([]interface{}{"path", "/api", "dangling"})
	if len(got) != 3 || got[2] != "dangling" {
		t.Fatalf("dangling value dropped: %v", got)
	}
}
