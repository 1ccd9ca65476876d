package server

import (
	"fmt"
	"html"
	"strings"

	"github.com/docshell/docshell/internal/manifest"
)

// NavHTML renders the navigation menu: one anchor per manifest key, in
// manifest order. Each entry carries data-key, role=menuitem and
// tabindex; the active entry additionally carries aria-current="page".
func NavHTML(m *manifest.Manifest, activeID string) string {
	var b strings.Builder
	b.WriteString(`<nav class="site-nav" role="menu">` + "\n")
	for _, key := range m.Keys() {
		item, _ := m.Get(key)
		current := ""
		if key == activeID {
			current = ` aria-current="page"`
		}
		b.WriteString(fmt.Sprintf("  <a class=\"nav-item\" role=\"menuitem\" tabindex=\"0\" data-key=\"%s\" href=\"/?id=%s\"%s>%s</a>\n",
			html.EscapeString(key), html.EscapeString(key), current, html.EscapeString(item.Title)))
	}
	b.WriteString("</nav>\n")
	return b.String()
}
