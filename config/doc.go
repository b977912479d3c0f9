// Package config loads the flat, line-oriented directive file that tells an indexer
// process which locations to register as roots, with which flags and
// owner name, and which filters and default policies to install before
// it starts crawling.
package config
