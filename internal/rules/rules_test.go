package rules

import (
	"strings"
	"testing"
)

func apply(t *testing.T, g *Game, token string) {
	t.Helper()
	m, err := g.ParseToken(token)
	if err != nil {
		t.Fatalf("parse %s: %v", token, err)
	}
	handle := MatchLegal(m, g.LegalMoves())
	if handle == nil {
		t.Fatalf("move %s not legal at %s", token, g.FEN())
	}
	if err := g.Apply(handle); err != nil {
		t.Fatalf("apply %s: %v", token, err)
	}
}

func TestNewGameStartsAtInitialPosition(t *testing.T) {
	g := NewGame()
	if g.FEN() != StartingFEN {
		t.Fatalf("expected starting FEN, got %s", g.FEN())
	}
	if g.SideToMove() != "White" {
		t.Fatalf("expected White to move, got %s", g.SideToMove())
	}
	if g.BlackToMove() {
		t.Fatalf("BlackToMove true at the start")
	}
	if len(g.LegalMoves()) != 20 {
		t.Fatalf("expected 20 opening moves, got %d", len(g.LegalMoves()))
	}
}

func TestNewGameFromFENRejectsGarbage(t *testing.T) {
	if _, err := NewGameFromFEN("not a position"); err == nil {
		t.Fatalf("expected error for invalid FEN")
	}
}

func TestParseTokenMalformed(t *testing.T) {
	g := NewGame()
	for _, token := range []string{"", "e2", "e2e9", "knight to f3", "zz9x"} {
		if _, err := g.ParseToken(token); err == nil {
			t.Fatalf("expected parse error for %q", token)
		}
	}
}

func TestMatchLegalResolvesHandleFromSet(t *testing.T) {
	g := NewGame()
	m, err := g.ParseToken("e2e4")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	legal := g.LegalMoves()
	handle := MatchLegal(m, legal)
	if handle == nil {
		t.Fatalf("e2e4 should be in the opening legal set")
	}
	found := false
	for _, lm := range legal {
		if lm == handle {
			found = true
		}
	}
	if !found {
		t.Fatalf("returned handle is not an element of the legal set")
	}
}

func TestMatchLegalRejectsMoveOutsideSet(t *testing.T) {
	g := NewGame()
	m, err := g.ParseToken("a1a8")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if MatchLegal(m, g.LegalMoves()) != nil {
		t.Fatalf("a1a8 must not match the opening legal set")
	}
}

func TestSANRenderedBeforeApply(t *testing.T) {
	g := NewGame()
	m, err := g.ParseToken("e2e4")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	handle := MatchLegal(m, g.LegalMoves())
	if san := g.SAN(handle); san != "e4" {
		t.Fatalf("expected SAN e4, got %s", san)
	}
	if err := g.Apply(handle); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if g.SideToMove() != "Black" || !g.BlackToMove() {
		t.Fatalf("expected Black to move after e4")
	}
}

func TestHistoryTracksBothNotations(t *testing.T) {
	g := NewGame()
	apply(t, g, "e2e4")
	apply(t, g, "e7e5")

	uci := g.HistoryUCI()
	if len(uci) != 2 || uci[0] != "e2e4" || uci[1] != "e7e5" {
		t.Fatalf("unexpected UCI history %v", uci)
	}
	san := g.HistorySAN()
	if len(san) != 2 || san[0] != "e4" || san[1] != "e5" {
		t.Fatalf("unexpected SAN history %v", san)
	}
	if g.LastMoveUCI() != "e7e5" {
		t.Fatalf("expected last move e7e5, got %s", g.LastMoveUCI())
	}
}

func TestLastMoveEmptyAtStart(t *testing.T) {
	g := NewGame()
	if g.LastMoveUCI() != "" {
		t.Fatalf("expected empty last move at the start, got %q", g.LastMoveUCI())
	}
}

func TestResetDiscardsHistory(t *testing.T) {
	g := NewGame()
	apply(t, g, "e2e4")
	g.Reset()
	if g.FEN() != StartingFEN {
		t.Fatalf("expected starting FEN after reset, got %s", g.FEN())
	}
	if len(g.HistoryUCI()) != 0 {
		t.Fatalf("expected empty history after reset")
	}
}

func TestIsPromotionDetectsPawnOnFinalRank(t *testing.T) {
	g, err := NewGameFromFEN("6k1/P7/8/8/8/8/6p1/6K1 w - - 0 1")
	if err != nil {
		t.Fatalf("setup FEN: %v", err)
	}
	if !g.IsPromotion("a7", "a8") {
		t.Fatalf("white pawn a7-a8 should promote")
	}
	if g.IsPromotion("g1", "g2") {
		t.Fatalf("king moves never promote")
	}
	apply(t, g, "a7a8q")
	if !g.IsPromotion("g2", "g1") {
		t.Fatalf("black pawn g2-g1 should promote")
	}
}

func TestIsPromotionFalseFromStart(t *testing.T) {
	g := NewGame()
	if g.IsPromotion("e2", "e4") {
		t.Fatalf("opening pawn push is not a promotion")
	}
	if g.IsPromotion("zz", "e4") || g.IsPromotion("e2", "??") {
		t.Fatalf("unknown square names are not promotions")
	}
}

func TestFoolsMateEndsInCheckmate(t *testing.T) {
	g := NewGame()
	for _, token := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		apply(t, g, token)
	}
	if !g.GameOver() {
		t.Fatalf("expected game over after fool's mate")
	}
	if !g.IsCheckmate() {
		t.Fatalf("expected checkmate")
	}
	if !g.IsCheck() {
		t.Fatalf("checkmated position is also in check")
	}
	if g.Winner() != "Black" {
		t.Fatalf("expected Black to win, got %q", g.Winner())
	}
	if len(g.LegalMoves()) != 0 {
		t.Fatalf("expected empty legal set after mate")
	}
}

func TestStalemateIsDrawNotCheck(t *testing.T) {
	g, err := NewGameFromFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("setup FEN: %v", err)
	}
	if !g.GameOver() || !g.IsStalemate() {
		t.Fatalf("expected stalemate, gameOver=%v", g.GameOver())
	}
	if g.IsCheckmate() || g.IsCheck() {
		t.Fatalf("stalemate must not register as check or mate")
	}
	if g.Winner() != "" {
		t.Fatalf("draw has no winner, got %q", g.Winner())
	}
}

func TestCaptureIntoInsufficientMaterial(t *testing.T) {
	g, err := NewGameFromFEN("7k/8/8/8/8/8/q7/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("setup FEN: %v", err)
	}
	apply(t, g, "a1a2")
	if !g.GameOver() || !g.IsInsufficientMaterial() {
		t.Fatalf("bare kings should draw by insufficient material")
	}
}

func TestFENRoundTripsThroughPosition(t *testing.T) {
	g := NewGame()
	apply(t, g, "e2e4")
	fen := g.FEN()
	if !strings.Contains(fen, " b ") {
		t.Fatalf("FEN after e4 should show Black to move: %s", fen)
	}
	g2, err := NewGameFromFEN(fen)
	if err != nil {
		t.Fatalf("reload FEN: %v", err)
	}
	if g2.FEN() != fen {
		t.Fatalf("FEN changed across reload: %s vs %s", g2.FEN(), fen)
	}
}
