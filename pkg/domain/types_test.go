package domain

import (
	"testing"
)

func TestFindPreset(t *testing.T) {
	t.Run("既知のIDはプリセットを返すのだ", func(t *testing.T) {
		p, ok := FindPreset("2")
		if !ok {
			t.Fatal("preset 2 should exist")
		}
		if p.Label != "Cyberpunk" {
			t.Errorf("got label %q, want Cyberpunk", p.Label)
		}
	})

	t.Run("未知のIDは false を返すのだ", func(t *testing.T) {
		if _, ok := FindPreset("missing"); ok {
			t.Error("unknown id should not resolve")
		}
	})

	t.Run("IDは一意であること", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, p := range Presets {
			if seen[p.ID] {
				t.Errorf("duplicate preset id %s", p.ID)
			}
			seen[p.ID] = true
		}
	})
}

func TestView_Valid(t *testing.T) {
	tests := []struct {
		view View
		want bool
	}{
		{ViewPreview, true},
		{ViewCode, true},
		{View("split"), false},
		{View(""), false},
	}
	for _, tt := range tests {
		if got := tt.view.Valid(); got != tt.want {
			t.Errorf("View(%q).Valid() = %v, want %v", tt.view, got, tt.want)
		}
	}
}
