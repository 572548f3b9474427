// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"accents", "Café au Lait", "cafe-au-lait"},
		{"punctuation", "What's New?!", "whats-new"},
		{"multiple spaces", "a   b", "a-b"},
		{"leading trailing", " -trim me- ", "trim-me"},
		{"already slug", "our-process", "our-process"},
		{"numbers", "Top 10 Tips", "top-10-tips"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
