// Package editor holds a rich text document and applies edits to it.
//
// # Transactions
//
// Every change goes through Editor.Apply. The change function edits a Tx,
// which holds a private copy of the document. When the function returns,
// the copy is normalized to its fixpoint and only then replaces the
// editor's document. Callers never observe a document that is not
// normalized, and a failing change leaves the editor as it was.
//
// Selections are stored as Loc values (leaf block ordinal and text
// offset) so they survive the node splits and merges normalization
// performs.
//
// # Pipelines
//
// A Pipeline is a fixed list of Units. Each unit fills in only the
// capabilities it needs: key, paste and drop handlers, normalization
// rules, schema declarations, commands and toolbar items. Key, paste and
// drop events go to the units in pipeline order and stop at the first
// unit that reports the event handled, so a unit placed earlier can
// override the behaviour of a later one. Normalization rules run in
// pipeline order too; a rule returning normalize.Settled keeps later rules
// away from a node.
package editor
