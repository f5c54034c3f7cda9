package spans

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/spans/internal/blend"
)

// Operator is a Porter-Duff compositing operator.
type Operator uint8

// Operators.
const (
	OperatorClear Operator = iota
	OperatorSource
	OperatorOver
	OperatorIn
	OperatorOut
	OperatorAtop
	OperatorDest
	OperatorDestOver
	OperatorDestIn
	OperatorDestOut
	OperatorDestAtop
	OperatorXor
	OperatorAdd
)

const (
	zero           = gputypes.BlendFactorZero
	one            = gputypes.BlendFactorOne
	srcAlpha       = gputypes.BlendFactorSrcAlpha
	oneMinSrcAlpha = gputypes.BlendFactorOneMinusSrcAlpha
	dstAlpha       = gputypes.BlendFactorDstAlpha
	oneMinDstAlpha = gputypes.BlendFactorOneMinusDstAlpha
)

var operatorFactors = [...]blend.Factors{
	OperatorClear:    {Src: zero, Dst: zero},
	OperatorSource:   {Src: one, Dst: zero},
	OperatorOver:     {Src: one, Dst: oneMinSrcAlpha},
	OperatorIn:       {Src: dstAlpha, Dst: zero},
	OperatorOut:      {Src: oneMinDstAlpha, Dst: zero},
	OperatorAtop:     {Src: dstAlpha, Dst: oneMinSrcAlpha},
	OperatorDest:     {Src: zero, Dst: one},
	OperatorDestOver: {Src: oneMinDstAlpha, Dst: one},
	OperatorDestIn:   {Src: zero, Dst: srcAlpha},
	OperatorDestOut:  {Src: zero, Dst: oneMinSrcAlpha},
	OperatorDestAtop: {Src: oneMinDstAlpha, Dst: srcAlpha},
	OperatorXor:      {Src: oneMinDstAlpha, Dst: oneMinSrcAlpha},
	OperatorAdd:      {Src: one, Dst: one},
}

var operatorNames = [...]string{
	OperatorClear:    "clear",
	OperatorSource:   "source",
	OperatorOver:     "over",
	OperatorIn:       "in",
	OperatorOut:      "out",
	OperatorAtop:     "atop",
	OperatorDest:     "dest",
	OperatorDestOver: "dest-over",
	OperatorDestIn:   "dest-in",
	OperatorDestOut:  "dest-out",
	OperatorDestAtop: "dest-atop",
	OperatorXor:      "xor",
	OperatorAdd:      "add",
}

// String returns the operator name.
func (op Operator) String() string {
	if int(op) < len(operatorNames) {
		return operatorNames[op]
	}
	return "unknown"
}

// ParseOperator returns the operator with the given name.
func ParseOperator(name string) (Operator, bool) {
	for op, n := range operatorNames {
		if n == name {
			return Operator(op), true
		}
	}
	return 0, false
}

// Factors returns the blend factors of the operator.
func (op Operator) Factors() blend.Factors {
	if int(op) < len(operatorFactors) {
		return operatorFactors[op]
	}
	return operatorFactors[OperatorOver]
}

// BlendState returns the operator as a GPU blend state on premultiplied
// color, for backends that composite on the GPU.
func (op Operator) BlendState() gputypes.BlendState {
	f := op.Factors()
	c := gputypes.BlendComponent{
		SrcFactor: f.Src,
		DstFactor: f.Dst,
		Operation: gputypes.BlendOperationAdd,
	}
	return gputypes.BlendState{Color: c, Alpha: c}
}

// Bound describes which inputs limit the area an operator changes.
type Bound uint8

// Bound flags.
const (
	BoundByMask Bound = 1 << iota
	BoundBySource
)

// Bounds returns how the operator is bounded. An operator without flags
// affects the whole clip.
func (op Operator) Bounds() Bound {
	f := op.Factors()
	var b Bound
	if f.BoundedByMask() {
		b |= BoundByMask
	}
	if f.BoundedBySource() {
		b |= BoundBySource
	}
	return b
}
