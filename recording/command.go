package recording

import (
	"github.com/gogpu/spans"
	"github.com/gogpu/spans/clip"
	"github.com/gogpu/spans/geom"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	CmdPaint  CommandType = iota // Paint a pattern through the clip
	CmdMask                      // Paint through a mask pattern
	CmdFill                      // Fill a path
	CmdStroke                    // Stroke a path
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdPaint:  "Paint",
	CmdMask:   "Mask",
	CmdFill:   "Fill",
	CmdStroke: "Stroke",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// PathRef is a reference to a path in the resource pool.
type PathRef uint32

// InvalidRef is the sentinel value for an invalid reference.
const InvalidRef = ^uint32(0)

// IsValid returns true if the reference points to a valid path.
func (r PathRef) IsValid() bool {
	return uint32(r) != InvalidRef
}

// Common holds the fields every drawing command carries.
type Common struct {
	Op     spans.Operator
	Source spans.Pattern
	// Clip is nil when the command was not clipped.
	Clip *clip.Clip
}

// PaintCommand paints Source everywhere inside Clip.
type PaintCommand struct {
	Common
}

// Type implements Command.
func (PaintCommand) Type() CommandType { return CmdPaint }

// MaskCommand paints Source through the alpha of Mask.
type MaskCommand struct {
	Common
	Mask spans.Pattern
}

// Type implements Command.
func (MaskCommand) Type() CommandType { return CmdMask }

// FillCommand fills a pooled path.
type FillCommand struct {
	Common
	Path      PathRef
	Rule      geom.FillRule
	Tolerance float64
	Antialias geom.Antialias
}

// Type implements Command.
func (FillCommand) Type() CommandType { return CmdFill }

// StrokeCommand strokes a pooled path.
type StrokeCommand struct {
	Common
	Path      PathRef
	Stroke    spans.Stroke
	Tolerance float64
	Antialias geom.Antialias
}

// Type implements Command.
func (StrokeCommand) Type() CommandType { return CmdStroke }
