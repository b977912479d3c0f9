// Package crawler walks a directory tree and reports the entries an
// indextree.Engine considers indexable, skipping subtrees the engine
// rejects without descending into them.
package crawler
