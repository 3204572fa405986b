package tool

import (
	"fmt"
	"strings"
)

// Docs renders a plain-text catalog of every registered tool, suitable
// for embedding in a planning prompt.
func Docs(registry Registry) string {
	var b strings.Builder
	for _, name := range registry.Names() {
		t, err := registry.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", t.Name(), t.Description())
	}
	return b.String()
}
