// Package icons maps the icon names used by the filter schema and the
// builder chrome to terminal glyphs.
package icons

// Names used by the builder itself
const (
	Add      = "plus"
	Remove   = "times"
	Done     = "check"
	Selected = "dot-circle"
	Option   = "circle"
	Caret    = "caret-down"
	Save     = "save"
)

var unicodeGlyphs = map[string]string{
	"mailbox":              "📫",
	"map-signs":            "🪧",
	"map-marked":           "🗺",
	"bed":                  "🛏",
	"bath":                 "🛁",
	"location":             "📍",
	"user-tie":             "👔",
	"user":                 "👤",
	"tags":                 "🏷",
	"clipboard-list-check": "📋",
	"toggle-on":            "◉",
	"file-signature":       "✍",

	Add:      "+",
	Remove:   "×",
	Done:     "✓",
	Selected: "◉",
	Option:   "○",
	Caret:    "▾",
	Save:     "💾",
}

var asciiGlyphs = map[string]string{
	"mailbox":              "#",
	"map-signs":            "S",
	"map-marked":           "M",
	"bed":                  "B",
	"bath":                 "b",
	"location":             "@",
	"user-tie":             "O",
	"user":                 "U",
	"tags":                 "T",
	"clipboard-list-check": "A",
	"toggle-on":            "L",
	"file-signature":       "C",

	Add:      "+",
	Remove:   "x",
	Done:     "ok",
	Selected: "(*)",
	Option:   "( )",
	Caret:    "v",
	Save:     "",
}

// Fallback is returned for names without a glyph
const Fallback = "?"

// Renderer resolves icon names to glyphs
type Renderer struct {
	glyphs map[string]string
}

// NewRenderer returns the unicode renderer, or the ASCII one when ascii is set
func NewRenderer(ascii bool) *Renderer {
	if ascii {
		return &Renderer{glyphs: asciiGlyphs}
	}
	return &Renderer{glyphs: unicodeGlyphs}
}

// Glyph returns the glyph for name
func (r *Renderer) Glyph(name string) string {
	if g, ok := r.glyphs[name]; ok {
		return g
	}
	return Fallback
}

// Has reports whether name has a glyph
func (r *Renderer) Has(name string) bool {
	_, ok := r.glyphs[name]
	return ok
}
