// Package yomu fetches web articles and PDFs, extracts their readable
// content, summarizes them in Japanese through an LLM and writes the result
// as a Markdown file.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, unipdf/, gemini/).
package yomu
