package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestColoredKeepsVersionText(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	if got := Colored(); got != Version {
		t.Fatalf("Colored() = %q, want %q with colors disabled", got, Version)
	}
}
