package engine

import (
	"testing"
	"time"
)

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func TestNormalizeTapsAndRotates(t *testing.T) {
	log := []InputEvent{
		{EventRotateCW, ms(0)},
		{EventTapLeft, ms(200)},
		{EventTapLeft, ms(400)},
		{EventHardDrop, ms(600)},
	}
	got := Normalize(log, DefaultCancelWindow)
	want := Sequence{RotateCW, MoveLeft, MoveLeft, HardDrop}
	if !got.Equal(want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeHoldRunCollapses(t *testing.T) {
	// Auto-shift repeats while the key is held arrive as a run of hold
	// events and collapse into one das action.
	log := []InputEvent{
		{EventHoldLeft, ms(100)},
		{EventHoldLeft, ms(133)},
		{EventHoldLeft, ms(166)},
		{EventHoldLeft, ms(200)},
		{EventHardDrop, ms(400)},
	}
	got := Normalize(log, DefaultCancelWindow)
	want := Sequence{DASLeft, HardDrop}
	if !got.Equal(want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeSeparateHoldRuns(t *testing.T) {
	// An interrupted hold produces two das actions
	log := []InputEvent{
		{EventHoldRight, ms(100)},
		{EventHoldRight, ms(133)},
		{EventRotateCCW, ms(250)},
		{EventHoldRight, ms(300)},
		{EventHoldRight, ms(333)},
		{EventHardDrop, ms(500)},
	}
	got := Normalize(log, DefaultCancelWindow)
	want := Sequence{DASRight, RotateCCW, DASRight, HardDrop}
	if !got.Equal(want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeCancelsOppositeTaps(t *testing.T) {
	// A tap corrected by an opposite tap inside the window contributes
	// nothing.
	log := []InputEvent{
		{EventTapLeft, ms(100)},
		{EventTapRight, ms(150)},
		{EventHardDrop, ms(400)},
	}
	got := Normalize(log, ms(80))
	want := Sequence{HardDrop}
	if !got.Equal(want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeKeepsSlowOppositeTaps(t *testing.T) {
	log := []InputEvent{
		{EventTapLeft, ms(100)},
		{EventTapRight, ms(300)},
		{EventHardDrop, ms(500)},
	}
	got := Normalize(log, ms(80))
	want := Sequence{MoveLeft, MoveRight, HardDrop}
	if !got.Equal(want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeCancelPairsGreedily(t *testing.T) {
	// Each tap cancels at most once: of three alternating taps the first
	// pair goes, the last one stays.
	log := []InputEvent{
		{EventTapLeft, ms(0)},
		{EventTapRight, ms(40)},
		{EventTapLeft, ms(60)},
		{EventHardDrop, ms(300)},
	}
	got := Normalize(log, ms(80))
	want := Sequence{MoveLeft, HardDrop}
	if !got.Equal(want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeSoftDropPassesThrough(t *testing.T) {
	log := []InputEvent{
		{EventTapRight, ms(100)},
		{EventSoftDrop, ms(200)},
		{EventHardDrop, ms(300)},
	}
	got := Normalize(log, DefaultCancelWindow)
	want := Sequence{MoveRight, SoftDrop, HardDrop}
	if !got.Equal(want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeEmptyLog(t *testing.T) {
	if got := Normalize(nil, DefaultCancelWindow); len(got) != 0 {
		t.Errorf("Normalize(nil) = %v, want empty", got)
	}
}

func TestEvaluateOptimalAndFaults(t *testing.T) {
	optimal := []Sequence{
		{DASLeft, HardDrop},
		{MoveLeft, MoveLeft, MoveLeft, HardDrop},
	}

	v := Evaluate(Sequence{DASLeft, HardDrop}, optimal)
	if !v.IsOptimal || v.FaultCount != 0 {
		t.Errorf("Matching length: %+v", v)
	}

	v = Evaluate(Sequence{MoveLeft, MoveLeft, MoveLeft, HardDrop}, optimal)
	if v.IsOptimal {
		t.Errorf("Four inputs against a two-input minimum should not be optimal: %+v", v)
	}
	if v.FaultCount != 2 {
		t.Errorf("FaultCount = %d, want 2", v.FaultCount)
	}
}

func TestEvaluateEmptyOptimalSet(t *testing.T) {
	v := Evaluate(Sequence{HardDrop}, nil)
	if v.IsOptimal || v.FaultCount != 0 {
		t.Errorf("Empty optimal set should yield a zero verdict, got %+v", v)
	}
}

func TestClassifyPlacement(t *testing.T) {
	cases := []struct {
		faults int
		want   PlacementGrade
	}{
		{0, GradeClean},
		{1, GradeDoubtful},
		{2, GradeFault},
		{3, GradeBlunder},
		{7, GradeBlunder},
	}
	for _, c := range cases {
		if got := ClassifyPlacement(c.faults); got != c.want {
			t.Errorf("ClassifyPlacement(%d) = %v, want %v", c.faults, got, c.want)
		}
	}
}

func TestPlacementGradeNotation(t *testing.T) {
	if GradeClean.Abbr() != "" {
		t.Errorf("Clean grade notation = %q, want empty", GradeClean.Abbr())
	}
	if GradeBlunder.Abbr() != "??" {
		t.Errorf("Blunder notation = %q, want ??", GradeBlunder.Abbr())
	}
	if GradeDoubtful.String() != "Doubtful" {
		t.Errorf("Doubtful name = %q", GradeDoubtful.String())
	}
}

func TestGetRating(t *testing.T) {
	cases := []struct {
		faultsPerPiece float64
		want           AccuracyRating
	}{
		{0.001, RatingSupernatural},
		{0.01, RatingWorldClass},
		{0.03, RatingExpert},
		{0.07, RatingAdvanced},
		{0.15, RatingIntermediate},
		{0.25, RatingCasualPlayer},
		{0.40, RatingBeginner},
		{0.80, RatingAwful},
	}
	for _, c := range cases {
		if got := GetRating(c.faultsPerPiece); got != c.want {
			t.Errorf("GetRating(%v) = %v, want %v", c.faultsPerPiece, got, c.want)
		}
	}
}

func TestAnalyzePlacement(t *testing.T) {
	b := DefaultBoard()
	optimal := CalculateOptimal(b, b.Spawn(PieceT), 0, RotationSpawn)

	// Clean execution: hold left, drop
	clean := []InputEvent{
		{EventHoldLeft, ms(100)},
		{EventHoldLeft, ms(133)},
		{EventHoldLeft, ms(166)},
		{EventHardDrop, ms(300)},
	}
	pa := AnalyzePlacement(clean, optimal, DefaultCancelWindow)
	if !pa.Verdict.IsOptimal {
		t.Errorf("Clean execution judged non-optimal: %+v", pa.Verdict)
	}
	if pa.Grade != GradeClean {
		t.Errorf("Clean execution grade = %v", pa.Grade)
	}

	// Sloppy execution: a stray tap pair outside the window, then taps
	sloppy := []InputEvent{
		{EventTapLeft, ms(0)},
		{EventTapRight, ms(400)},
		{EventHoldLeft, ms(600)},
		{EventHoldLeft, ms(633)},
		{EventHardDrop, ms(900)},
	}
	pa = AnalyzePlacement(sloppy, optimal, DefaultCancelWindow)
	if pa.Verdict.IsOptimal {
		t.Error("Sloppy execution judged optimal")
	}
	if pa.Verdict.FaultCount != 2 {
		t.Errorf("FaultCount = %d, want 2", pa.Verdict.FaultCount)
	}
	if pa.Grade != GradeFault {
		t.Errorf("Sloppy execution grade = %v", pa.Grade)
	}
}

func TestEventCodes(t *testing.T) {
	for ev := InputEventType(0); ev < NumEventTypes; ev++ {
		code := ev.Code()
		parsed, err := ParseEventCode(code)
		if err != nil {
			t.Fatalf("ParseEventCode(%q): %v", code, err)
		}
		if parsed != ev {
			t.Errorf("ParseEventCode(%q) = %v, want %v", code, parsed, ev)
		}
	}
	if _, err := ParseEventCode("nope"); err == nil {
		t.Error("ParseEventCode should reject unknown codes")
	}
}
