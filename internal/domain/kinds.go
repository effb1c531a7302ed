package domain

import "strings"

type KindTag string

// ColorTag is a terminal color: an ANSI index ("69") or a hex string ("#4e79a7").
type ColorTag string

const (
	KindRoot    KindTag = "root"
	KindMachine KindTag = "machine"
	KindGroup   KindTag = "group"
	KindDefault KindTag = "default"
)

func NormalizeKind(value string) KindTag {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return KindDefault
	}
	return KindTag(trimmed)
}

type KindStyle struct {
	Color       ColorTag
	Summarize   bool
	Description string
}

// StyleTable maps lane kinds to presentation. Kinds are data: unknown kinds
// fall back to a palette color picked by hashing the tag.
type StyleTable struct {
	styles  map[KindTag]KindStyle
	palette []ColorTag
}

var defaultPalette = []ColorTag{"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f", "#edc948", "#b07aa1", "#ff9da7"}

func DefaultStyleTable() *StyleTable {
	return &StyleTable{
		styles: map[KindTag]KindStyle{
			"cpu":    {Color: "#4e79a7", Summarize: true, Description: "CPU processors"},
			"gpu":    {Color: "#59a14f", Summarize: true, Description: "GPU processors"},
			"omp":    {Color: "#e15759", Summarize: true, Description: "OpenMP processors"},
			"py":     {Color: "#edc948", Summarize: true, Description: "Python processors"},
			"util":   {Color: "#b07aa1", Summarize: true, Description: "utility processors"},
			"chan":   {Color: "#76b7b2", Summarize: true, Description: "channels"},
			"sysmem": {Color: "#f28e2b", Summarize: true, Description: "system memory"},

			KindMachine: {Color: "245", Description: "machines"},
			KindGroup:   {Color: "245", Description: "lane groups"},
		},
		palette: defaultPalette,
	}
}

func (table *StyleTable) Set(kind KindTag, style KindStyle) {
	if table.styles == nil {
		table.styles = make(map[KindTag]KindStyle)
	}
	table.styles[kind] = style
}

// SetColor overrides only the color of a kind, keeping its other attributes.
func (table *StyleTable) SetColor(kind KindTag, color ColorTag) {
	style, ok := table.styles[kind]
	if !ok {
		style = KindStyle{Summarize: true}
	}
	style.Color = color
	table.Set(kind, style)
}

func (table *StyleTable) Lookup(kind KindTag) KindStyle {
	if table != nil {
		if style, ok := table.styles[kind]; ok {
			return style
		}
	}
	palette := defaultPalette
	if table != nil && len(table.palette) > 0 {
		palette = table.palette
	}
	var hash uint32 = 2166136261
	for i := 0; i < len(kind); i++ {
		hash ^= uint32(kind[i])
		hash *= 16777619
	}
	return KindStyle{Color: palette[hash%uint32(len(palette))], Summarize: true}
}

// ColorFor resolves an item color, falling back to the kind color.
func (table *StyleTable) ColorFor(kind KindTag, color ColorTag) ColorTag {
	if color != "" {
		return color
	}
	return table.Lookup(kind).Color
}
