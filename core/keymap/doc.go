// Package keymap resolves the key column correspondence between a source and a
// target table.
//
// Resolve takes the caller's ordered column selections for both sides and pairs them
// in three deterministic passes, never reusing a column once it is paired:
//
//  1. exact name match,
//  2. case-insensitive match (simple Unicode folding, no locale rules),
//  3. positional fallback over the columns still unpaired on both sides.
//
// Columns left over when the selections differ in length are reported in
// Mapping.DroppedSource and Mapping.DroppedTarget so callers can surface them.
package keymap
