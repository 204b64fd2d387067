// Package render draws a laid-out class diagram onto raster (PNG via
// fogleman/gg), vector (hand-emitted SVG), and Graphviz DOT surfaces.
package render

// Theme holds the drawing colors as hex strings ("#rrggbb").
type Theme struct {
	Background string
	BoxFill    string
	BoxBorder  string

	HeaderInterface string
	HeaderAbstract  string
	HeaderConcrete  string
	HeaderText      string

	Text          string
	InheritedText string
	Divider       string

	Edge        string
	LabelFill   string
	LabelBorder string
	LabelText   string
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() Theme {
	return Theme{
		Background:      "#fafafa",
		BoxFill:         "#ffffff",
		BoxBorder:       "#37474f",
		HeaderInterface: "#b39ddb",
		HeaderAbstract:  "#90caf9",
		HeaderConcrete:  "#a5d6a7",
		HeaderText:      "#1a1a2e",
		Text:            "#212121",
		InheritedText:   "#8a8a9e",
		Divider:         "#b0bec5",
		Edge:            "#455a64",
		LabelFill:       "#fffde7",
		LabelBorder:     "#c0b283",
		LabelText:       "#5d4037",
	}
}
