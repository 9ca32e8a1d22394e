package lang

// Node is the interface implemented by all AST node variants. The set
// of variants is closed; both backends switch exhaustively over it.
// Nodes are immutable once the parser returns them.
type Node interface {
	node()
}

// Number is a numeric literal. The reserved identifiers pi and e parse
// directly to Number nodes.
type Number struct {
	Value float64
}

// BandRef references band Index (1-based) of the single implicit raster
// source. It is the only data reference the declarative backend
// supports; the eager backend accepts it when exactly one dataset is
// bound.
type BandRef struct {
	Index int
}

// Variable references a bound raster dataset by name and implicitly
// means band 1 of that dataset. Meaningful only under eager-backend
// bindings.
type Variable struct {
	Name string
}

// Member is a dataset member reference: "dem.b3" selects a band
// (Band > 0), "dem.crs" a named property (Property != ""). Exactly one
// of the two is set. Property access parses everywhere but no backend
// currently supports it.
type Member struct {
	Object   string
	Band     int
	Property string
}

// Unary is a unary operation. The only operator is '-'.
type Unary struct {
	Op  string
	Arg Node
}

// Binary is an arithmetic operation: one of + - * / % ^.
type Binary struct {
	Op    string
	Left  Node
	Right Node
}

// Comparison is a relational operation: one of > < >= <= == !=.
// Both backends produce raster-numeric 1/0, never booleans.
type Comparison struct {
	Op    string
	Left  Node
	Right Node
}

// Ternary is the conditional "cond ? then : else". A zero condition
// selects Else; anything else selects Then.
type Ternary struct {
	Cond Node
	Then Node
	Else Node
}

// Call is a function call. Name is case-folded; it is resolved against
// the closed function table at lowering or evaluation entry, not at
// parse time.
type Call struct {
	Name string
	Args []Node
}

func (*Number) node()     {}
func (*BandRef) node()    {}
func (*Variable) node()   {}
func (*Member) node()     {}
func (*Unary) node()      {}
func (*Binary) node()     {}
func (*Comparison) node() {}
func (*Ternary) node()    {}
func (*Call) node()       {}
