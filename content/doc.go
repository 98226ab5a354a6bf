// Package content normalizes raw document payloads into clean text for LLM
// prompts. Search providers return a mix of full HTML pages, markdown and
// plain snippets; Extract detects the shape, strips markup and boilerplate,
// and collapses whitespace. Clip bounds the result by runes so multi-byte
// text never gets cut mid-character.
package content
