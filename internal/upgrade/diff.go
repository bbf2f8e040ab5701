package upgrade

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
)

// DefaultDiffMaxLines caps the inventory diff shown after a verbose upgrade.
const DefaultDiffMaxLines = 40

// renderTruncatedDiff returns a unified diff of from and to limited to maxLines.
// An empty string means the contents are identical.
func renderTruncatedDiff(fromName string, toName string, from string, to string, maxLines int) string {
	if maxLines <= 0 {
		maxLines = DefaultDiffMaxLines
	}
	diff := udiff.Unified(fromName, toName, from, to)
	if diff == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n") + "\n"
	}
	out := strings.Join(lines[:maxLines], "\n") + "\n"
	return out + fmt.Sprintf(messages.UpgradeDiffTruncatedFmt, len(lines)-maxLines)
}
