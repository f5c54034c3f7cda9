package geom

// FillRule selects how winding numbers map to inside/outside.
type FillRule uint8

const (
	// FillRuleWinding fills points with a non-zero winding number.
	FillRuleWinding FillRule = iota
	// FillRuleEvenOdd fills points with an odd crossing count.
	FillRuleEvenOdd
)

// String returns the fill rule name.
func (r FillRule) String() string {
	if r == FillRuleEvenOdd {
		return "EvenOdd"
	}
	return "Winding"
}

// Inside reports whether a winding number is inside under the rule.
func (r FillRule) Inside(winding int) bool {
	if r == FillRuleEvenOdd {
		return winding&1 != 0
	}
	return winding != 0
}

// Antialias selects the scan-conversion quality.
type Antialias uint8

const (
	AntialiasDefault Antialias = iota
	AntialiasNone
	AntialiasFast
	AntialiasGood
	AntialiasBest
)

var antialiasNames = [...]string{
	AntialiasDefault: "Default",
	AntialiasNone:    "None",
	AntialiasFast:    "Fast",
	AntialiasGood:    "Good",
	AntialiasBest:    "Best",
}

// String returns the antialias name.
func (a Antialias) String() string {
	if int(a) < len(antialiasNames) {
		return antialiasNames[a]
	}
	return "Unknown"
}

// IsAliased reports whether a produces hard (0 or 255) coverage.
func (a Antialias) IsAliased() bool {
	return a == AntialiasNone
}
