package clientdist

import (
	"strings"
	"testing"
)

func TestFolioJSBehaviour(t *testing.T) {
	src := string(FolioJS)

	tests := []struct {
		name string
		want string
	}{
		{"reveal threshold", "threshold: 0.1"},
		{"reveal root margin", "rootMargin: '0px 0px -100px 0px'"},
		{"bare hash left to the browser", "if (href === '#') return;"},
		{"mobile menu links close the panel", "e.target.closest('#mobileMenu a')"},
		{"save shortcut", "e.ctrlKey || e.metaKey"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(src, tt.want) {
				t.Errorf("client script missing %q", tt.want)
			}
		})
	}

	if strings.Contains(src, "-50px") {
		t.Error("reveal root margin should be -100px")
	}
}
