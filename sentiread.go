// Package sentiread fetches news articles, extracts their readable text from
// heterogeneous publisher HTML, and hands that text to a sentiment analyzer.
//
// The core is the content-extraction subsystem: an ordered registry of
// site-specific extractors, a heuristic generic extractor used when no site
// matches, and a caching, retrying, bounded-concurrency fetch pipeline.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, gemini/).
package sentiread
