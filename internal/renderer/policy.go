package renderer

import (
	"github.com/microcosm-cc/bluemonday"
)

// RichTextPolicy пропускает inline-разметку панели редактора (жирный, курсив,
// ссылка, код, маркер, подчёркивание) и вырезает всё остальное.
func RichTextPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("b", "i", "u", "mark", "code", "br")
	p.AllowAttrs("class").OnElements("mark", "code")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}
