// Package links implements the hyperlink, entry hyperlink and asset
// hyperlink lifecycle on top of an editor.
//
// A Manager opens a Form for the current selection, collects a uri or an
// entity target, and commits the result as one editor transaction.
// Entity targets come from a Picker which may block on user input; it
// runs on its own goroutine and its result is applied with
// Manager.Resolve, which drops results for forms that were closed in the
// meantime.
//
// Links never hold an unset target in the document. The form holds the
// target until submit, and the UnwrapInvalid rule turns any link without
// a destination, or with a uri the host rejects, back into plain text.
// That covers links arriving through paste as well.
package links
