// Package chain holds the step model for composed sed invocations.
//
// A Step is one substitution or deletion. A Chain is the ordered list of
// steps; insertion order is application order and command order. Flags carry
// the per-session command-line switches that affect rendering only.
//
// # Delete Sentinel
//
// A step whose replacement is exactly DeleteSentinel removes matching lines
// instead of substituting text:
//
//	c := chain.New()
//	c.Append(chain.Step{Pattern: `^$`, Replacement: chain.DeleteSentinel})
//
// Regular expression syntax is not validated here. Invalid patterns surface
// later, when the chain is simulated.
package chain
