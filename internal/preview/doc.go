// Package preview simulates a chain of edit steps on in-memory sample text.
//
// The simulation follows sed's per-line model: every step sees the lines
// left by the previous step, a delete step drops matching lines, and a
// substitute step rewrites the first or every match on each line. Line
// addresses refer to input line numbers, as they do in sed, so a range still
// selects the same lines after an earlier step deleted some.
//
// Pattern matching uses Go's regexp package. Replacement templates use sed
// syntax: \1 through \9 are groups, & is the whole match, and \& is a
// literal ampersand.
package preview
