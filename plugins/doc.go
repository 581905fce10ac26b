// Package plugins holds the built in pipeline units and composes them,
// together with host supplied units, into an editor pipeline.
//
// Units are built by factories looked up by name in a registry. Compose
// runs them in a fixed order; a factory returning a nil unit is disabled
// by the host configuration and left out. Host factories registered with
// Register are placed before the built in behaviours (PreLoad), where
// their key handlers can take keys first, or after them (PostLoad),
// where they only add.
package plugins
