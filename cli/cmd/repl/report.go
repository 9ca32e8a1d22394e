package repl

import (
	"strconv"

	"github.com/endarthur/spinifex-sub001/lang"
	"github.com/endarthur/spinifex-sub001/raster"
)

// Report holds everything the scratchpad shows for one parsed line.
type Report struct {
	Canonical string
	Lowered   string
	LowerErr  string
	Value     string
	HasValue  bool
}

// report parses one line and assembles its Report. A parse failure is the
// only error; lowering and evaluation failures degrade to absent fields
// since a band reference is not an error in an expression scratchpad.
func report(line string, strict bool) (Report, error) {
	var (
		node lang.Node
		err  error
	)

	if strict {
		node, err = lang.ParseStrict(line)
	} else {
		node, err = lang.Parse(line)
	}

	if err != nil {
		return Report{}, err
	}

	rep := Report{Canonical: lang.Format(node)}

	if expr, err := lang.Lower(node); err != nil {
		rep.LowerErr = err.Error()
	} else {
		rep.Lowered = expr.String()
	}

	// Only expressions free of band and variable references bind against
	// zero inputs.
	eval, err := lang.NewEvaluator(node, nil, raster.DefaultNodata)
	if err != nil {
		return rep, nil
	}

	v := eval.Evaluate(0)
	if v == eval.Nodata() {
		rep.Value = "nodata"
	} else {
		rep.Value = strconv.FormatFloat(v, 'g', -1, 64)
	}

	rep.HasValue = true

	return rep, nil
}
