// Package images provides the thumbnail image directive.
//
// The directive turns
//
//	:::thumbnail img/diagram.png
//	:width: 50%
//	:group: architecture
//	The request path.
//	:::
//
// into an ImageNode that a pluggable Backend renders per output format.
// Remote references are downloaded into a cache directory below the source
// directory once all documents have been read. Backends register themselves
// with RegisterBackend from an init function and are selected by name through
// the images.backend configuration value.
package images
