// Package vdf reads and writes Valve's text KeyValues format, the
// brace and tab delimited format used by Steam's config files.
//
// Decoding is a small recursive-descent parser over quoted strings, bare
// tokens, braces and comments. The resulting Tree remembers the order of
// its keys, which matters to callers that want the "first" entry of an
// object (e.g., the first account under Accounts).
package vdf
