package negotiate

import "testing"

func TestParseReplyMoveOnly(t *testing.T) {
	rationale, token := ParseReply("e7e5")
	if token != "e7e5" {
		t.Fatalf("expected token e7e5, got %q", token)
	}
	if rationale != "no rationale provided" {
		t.Fatalf("expected placeholder rationale, got %q", rationale)
	}
}

func TestParseReplyRationaleAndMove(t *testing.T) {
	rationale, token := ParseReply("I will develop.\ng8f6")
	if token != "g8f6" {
		t.Fatalf("expected token g8f6, got %q", token)
	}
	if rationale != "I will develop." {
		t.Fatalf("expected rationale preserved, got %q", rationale)
	}
}

func TestParseReplyNoMove(t *testing.T) {
	rationale, token := ParseReply("I resign")
	if token != "" {
		t.Fatalf("expected no token, got %q", token)
	}
	if rationale != "I resign" {
		t.Fatalf("expected full text as rationale, got %q", rationale)
	}
}

func TestParseReplyEmpty(t *testing.T) {
	rationale, token := ParseReply("")
	if token != "" {
		t.Fatalf("expected no token, got %q", token)
	}
	if rationale != "empty response" {
		t.Fatalf("expected empty-response placeholder, got %q", rationale)
	}
}

func TestParseReplyNormalizesCase(t *testing.T) {
	_, token := ParseReply("Taking the center.\nE2E4")
	if token != "e2e4" {
		t.Fatalf("expected lowercased token e2e4, got %q", token)
	}
}

func TestParseReplyPromotionToken(t *testing.T) {
	_, token := ParseReply("Promoting.\na7a8q")
	if token != "a7a8q" {
		t.Fatalf("expected promotion token, got %q", token)
	}
}

func TestParseReplyMultilineRationale(t *testing.T) {
	rationale, token := ParseReply("First thought.\n\nSecond thought.\nd2d4\n")
	if token != "d2d4" {
		t.Fatalf("expected token d2d4, got %q", token)
	}
	if rationale != "First thought.\nSecond thought." {
		t.Fatalf("expected joined non-empty lines, got %q", rationale)
	}
}

func TestParseReplyIgnoresTrailingWhitespace(t *testing.T) {
	_, token := ParseReply("  e2e4  \n   ")
	if token != "e2e4" {
		t.Fatalf("expected trimmed token e2e4, got %q", token)
	}
}
