// Package kindprobe resolves the on-disk kind (file or directory) of a
// batch of paths with bounded concurrency, for callers that left
// indextree.KindUnknown under a NoStat root and need it settled before
// indextree.Engine.IsIndexable can apply kind-based filters.
package kindprobe
