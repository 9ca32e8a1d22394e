// Package lang implements the spinifex raster expression language: a
// tokenizer, a recursive-descent parser, and two backends that consume
// the same AST.
//
// The declarative backend ([Lower]) turns an expression into a nested
// style tree evaluated later by the GPU compositing runtime, so band
// math like "b1/b2" can drive visualization without materializing new
// data. The eager backend ([Evaluator]) walks the AST once per pixel
// against bound raster datasets and powers the map-algebra calculator.
//
// The two backends intentionally differ in one place: the declarative
// ndvi() sugar guards a zero denominator with 0, while equivalent eager
// band math yields the nodata sentinel. See the backend docs before
// "fixing" either side.
//
// Expression syntax:
//
//	b1 + b2 * 2            band references (single implicit raster)
//	dem.b1 - dem.b2        dataset.band member references
//	(a.b4-a.b3)/(a.b4+a.b3)
//	slope > 15 ? 1 : 0     comparisons yield 1/0, one ternary level
//	clamp(log(b1), 0, 8)   function calls, constants pi and e
package lang
