// Package indextree decides, for any file-system path, whether it belongs
// to the set of resources a content indexer should scan, monitor and
// ingest. It holds a forest of indexing roots, a layered glob filter
// engine, and a hidden-file toggle, and answers queries used by a crawler
// and a file-system monitor. The package performs no I/O of its own: it is
// an advisory decision layer over caller-supplied paths.
package indextree
