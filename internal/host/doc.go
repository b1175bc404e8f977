// Package host is the document build pipeline that extensions plug into.
//
// The host owns configuration, the lifecycle event bus, the Markdown document
// tree and output emission. Extensions register through RegisterExtension and
// contribute directives, node handlers, config sections and event listeners
// from their SetupFunc. A build runs in fixed phases:
//
//	config-inited   config loaded, extension sections available
//	builder-inited  output builder created
//	(read)          documents parsed, directives run
//	env-updated     all documents read
//	(write)         documents rendered, images copied
//	build-finished  always emitted, errors are logged only
package host
