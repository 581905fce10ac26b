// Package normalize brings a document to the fixpoint of a rule set.
//
// A Rule looks at one element node and may rewrite its children. The
// Normalizer visits elements bottom up and restarts from the root after
// every rewrite, so each rule always sees children that are already
// normalized. A run ends when a full pass applies no rule.
//
// A rule returning Settled claims the node for the rest of the pass; rules
// after it do not see the node. Pipeline units placed early use this to
// keep built in rules away from nodes they handle themselves.
//
// The number of rewrites is bounded by MaxIterationsPerNode times the
// size of the input. A run that exceeds the bound returns
// ErrNonConvergent; this always means a rule set that undoes its own
// work.
//
// The rules in Core keep these properties of every document:
//
//   - a labelled inline never has an empty label
//   - no element is empty
//   - adjacent text siblings never share a mark set
//   - inlines never nest
//   - every inline has a text sibling on each side
package normalize
