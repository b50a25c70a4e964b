package main

import "testing"

func TestEffectiveDepthFixedMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AiDepthMode = "fixed"
	cfg.AiDepth = 5
	for _, moveCount := range []int{0, 3, 25} {
		if depth := effectiveDepth(cfg, moveCount); depth != 5 {
			t.Fatalf("fixed mode at %d moves: expected 5, got %d", moveCount, depth)
		}
	}
}

func TestEffectiveDepthManualMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AiDepthMode = "manual"
	cfg.AiDepth = 4
	cfg.AiManualDepth = 7
	if depth := effectiveDepth(cfg, 10); depth != 7 {
		t.Fatalf("manual mode: expected 7, got %d", depth)
	}
	cfg.AiManualDepth = 0
	if depth := effectiveDepth(cfg, 10); depth != 4 {
		t.Fatalf("manual mode without override must fall back to base depth, got %d", depth)
	}
}

func TestEffectiveDepthDynamicMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AiDepthMode = "dynamic"
	cfg.AiDepth = 4
	cfg.AiDynamicEarlyMoves = 4
	cfg.AiDynamicLateMoves = 20
	cfg.AiDynamicShallowDepth = 2
	cfg.AiDynamicDeepDepth = 6

	cases := []struct {
		moveCount int
		want      int
	}{
		{0, 2},
		{3, 2},
		{4, 4},
		{20, 4},
		{21, 6},
		{40, 6},
	}
	for _, tc := range cases {
		if depth := effectiveDepth(cfg, tc.moveCount); depth != tc.want {
			t.Fatalf("dynamic mode at %d moves: expected %d, got %d", tc.moveCount, tc.want, depth)
		}
	}
}

func TestEffectiveDepthNeverBelowOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AiDepthMode = "fixed"
	cfg.AiDepth = 0
	if depth := effectiveDepth(cfg, 0); depth != 1 {
		t.Fatalf("expected floor of 1, got %d", depth)
	}
}

func TestDepthModeFromString(t *testing.T) {
	if mode := depthModeFromString("dynamic"); mode != DepthDynamic {
		t.Fatalf("expected DepthDynamic, got %v", mode)
	}
	if mode := depthModeFromString("manual"); mode != DepthManual {
		t.Fatalf("expected DepthManual, got %v", mode)
	}
	if mode := depthModeFromString("fixed"); mode != DepthFixed {
		t.Fatalf("expected DepthFixed, got %v", mode)
	}
	if mode := depthModeFromString("garbage"); mode != DepthFixed {
		t.Fatalf("unknown strings must default to DepthFixed, got %v", mode)
	}
}
