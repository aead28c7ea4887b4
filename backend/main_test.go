package main

import "testing"

func TestSettingsFromDTOModes(t *testing.T) {
	base := DefaultGameSettings()

	aiVsAi, err := settingsFromDTO(GameSettingsDTO{Mode: "ai_vs_ai"}, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if aiVsAi.XType != PlayerAI || aiVsAi.OType != PlayerAI {
		t.Fatalf("expected both sides AI for ai_vs_ai")
	}

	humanO, err := settingsFromDTO(GameSettingsDTO{Mode: "ai_vs_human", HumanPlayer: 2}, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if humanO.XType != PlayerAI || humanO.OType != PlayerHuman {
		t.Fatalf("expected human on O when human_player=2")
	}

	resized, err := settingsFromDTO(GameSettingsDTO{Rows: 4, Cols: 6}, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resized.Rows != 4 || resized.Cols != 6 {
		t.Fatalf("expected 4x6, got %dx%d", resized.Rows, resized.Cols)
	}
	// Player types untouched when the mode field is absent.
	if resized.XType != base.XType || resized.OType != base.OType {
		t.Fatalf("expected player types preserved without a mode")
	}
}

func TestSettingsFromDTORejectsBadDimensions(t *testing.T) {
	base := DefaultGameSettings()
	if _, err := settingsFromDTO(GameSettingsDTO{Rows: -1, Cols: 3}, base); err == nil {
		t.Fatalf("expected error for negative rows")
	}
	if _, err := settingsFromDTO(GameSettingsDTO{Rows: 3, Cols: 0}, base); err == nil {
		t.Fatalf("expected error for partial dimensions")
	}
}

func TestControllerSettingsDTORoundTrip(t *testing.T) {
	settings := DefaultGameSettings()
	settings.XType = PlayerAI
	settings.OType = PlayerHuman
	dto := controllerSettingsDTO(settings)
	if dto.Mode != "ai_vs_human" || dto.HumanPlayer != 2 {
		t.Fatalf("expected ai_vs_human with human O, got mode=%q human=%d", dto.Mode, dto.HumanPlayer)
	}
	back, err := settingsFromDTO(dto, DefaultGameSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.XType != settings.XType || back.OType != settings.OType {
		t.Fatalf("round trip changed player types")
	}
}

func TestStatusAndWinnerMappings(t *testing.T) {
	cases := []struct {
		status GameStatus
		text   string
		winner int
	}{
		{StatusNotStarted, "not_started", 0},
		{StatusRunning, "running", 0},
		{StatusXWon, "x_won", 1},
		{StatusOWon, "o_won", 2},
		{StatusDraw, "draw", 0},
	}
	for _, tc := range cases {
		if got := statusToString(tc.status); got != tc.text {
			t.Fatalf("status %v: expected %q, got %q", tc.status, tc.text, got)
		}
		if got := winnerFromStatus(tc.status); got != tc.winner {
			t.Fatalf("status %v: expected winner %d, got %d", tc.status, tc.winner, got)
		}
	}
}

func TestBoardFromSliceRoundTrip(t *testing.T) {
	board := NewBoard(2, 3)
	board.Set(0, 0, CellX)
	board.Set(2, 1, CellO)
	decoded, err := boardFromSlice(boardToSlice(board))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Rows() != 2 || decoded.Cols() != 3 {
		t.Fatalf("expected 2x3, got %dx%d", decoded.Rows(), decoded.Cols())
	}
	if decoded.At(0, 0) != CellX || decoded.At(2, 1) != CellO || decoded.At(1, 0) != CellEmpty {
		t.Fatalf("round trip changed cells")
	}

	if _, err := boardFromSlice(nil); err == nil {
		t.Fatalf("expected error for empty board")
	}
	if _, err := boardFromSlice([][]int{{0, 0}, {0}}); err == nil {
		t.Fatalf("expected error for ragged rows")
	}
}

func TestHistoryEntryDTOCarriesDepth(t *testing.T) {
	entry := HistoryEntry{
		Move:      Move{X: 2, Y: 1, Depth: 7},
		Player:    PlayerO,
		ElapsedMs: 120,
		IsAi:      true,
	}
	dto := historyEntryToDTO(entry)
	if dto.Depth != 7 || dto.Player != 2 || !dto.IsAi {
		t.Fatalf("unexpected DTO: %+v", dto)
	}
}

func TestBoardToSlice(t *testing.T) {
	board := NewBoard(2, 3)
	board.Set(0, 0, CellX)
	board.Set(2, 1, CellO)
	rows := boardToSlice(board)
	if len(rows) != 2 || len(rows[0]) != 3 {
		t.Fatalf("expected 2x3 slice, got %dx%d", len(rows), len(rows[0]))
	}
	if rows[0][0] != 1 || rows[1][2] != 2 || rows[0][1] != 0 {
		t.Fatalf("unexpected cell encoding: %v", rows)
	}
}
