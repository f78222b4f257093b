// Package docpack turns documentation websites into local, AI-consumable
// knowledge bases. It crawls a seeded set of pages, extracts their main
// content as markdown, splits every page into bounded-size heading-aware
// chunks, and writes a retrieval manifest alongside one artifact per chunk.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/) or the
// pipeline stage they provide (crawl/, chunk/, ingest/).
package docpack
