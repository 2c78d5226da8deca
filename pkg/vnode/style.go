package vnode

// EdgeInsets describes spacing on each side of a node, in logical pixels.
type EdgeInsets struct {
	Top    float64 `json:"top,omitempty"`
	Right  float64 `json:"right,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`
	Left   float64 `json:"left,omitempty"`
}

// EdgeAll returns insets with the same value on every side.
func EdgeAll(v float64) EdgeInsets {
	return EdgeInsets{Top: v, Right: v, Bottom: v, Left: v}
}

// EdgeSymmetric returns insets with the given vertical and horizontal values.
func EdgeSymmetric(vertical, horizontal float64) EdgeInsets {
	return EdgeInsets{Top: vertical, Bottom: vertical, Left: horizontal, Right: horizontal}
}

// Alignment positions a node's content within its bounds.
type Alignment uint8

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
	AlignStretch
)

// FontWeight selects a typeface weight.
type FontWeight uint16

const (
	WeightNormal FontWeight = 400
	WeightMedium FontWeight = 500
	WeightBold   FontWeight = 700
)

// Style is a plain value record describing spacing, color, sizing, flex, and
// typography. Zero values mean "unset"; shells apply their own defaults.
// Style carries no behavior.
type Style struct {
	Padding EdgeInsets `json:"padding,omitzero"`
	Margin  EdgeInsets `json:"margin,omitzero"`

	// Width and Height of 0 mean size-to-content.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Flex is the flexible-space weight within a Row or Column; 0 means rigid.
	Flex int `json:"flex,omitempty"`

	// Color and Background are ARGB, e.g. 0xFF336699. Zero means unset.
	Color      uint32 `json:"color,omitempty"`
	Background uint32 `json:"background,omitempty"`

	FontSize   float64    `json:"fontSize,omitempty"`
	FontWeight FontWeight `json:"fontWeight,omitempty"`
	Align      Alignment  `json:"align,omitempty"`
}
