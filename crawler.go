// Package crawler provides a polite, extensible web crawler.
// URLs come from a pluggable queue, pages are fetched at a bounded rate and
// concurrency, robots.txt exclusions are honoured, and fetched pages flow
// through a chain of handlers whose output can feed back into the queue.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, http/).
package crawler
