// Package webextract provides a batch article extractor. It fetches web
// articles by URL, selects the main content with configurable selectors,
// converts it to Markdown while preserving inline formatting, downloads the
// referenced images into a per-article folder, and writes every article plus
// an index to disk.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, sqlite/).
package webextract
