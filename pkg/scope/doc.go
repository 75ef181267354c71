/*
Package scope finds the scope stack and the bounding ranges around a cursor in a
document tokenized into tag streams.

The tokenizer never builds a tree. Each row is a flat list of token widths with
open and close markers interleaved, so nesting is recovered by counting:

	row:    -1   5   -3   2   -4   -2   3
	        (A  ...  (B  ..   B)   A)  ...
	                      ^ cursor

	stack at cursor:   [A B]
	immediate range:   from the nearest marker on the left  (B
	                   to the nearest marker on the right   B)
	enclosing range:   from the marker that takes the depth below the
	                   cursor's depth on each side

When a row runs out before a boundary is found the walk continues on the
previous (or next) row, and gives up at the start (or end) of the document.
*/
package scope
