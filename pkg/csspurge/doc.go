// Package csspurge reduces a stylesheet to the rules whose selectors match
// something in an HTML document.
//
// The stylesheet is tokenized with github.com/speedata/css/scanner and split
// into a rule tree. Style rules are filtered selector by selector with
// github.com/andybalholm/cascadia against the parsed document; grouping
// at-rules such as @media are filtered recursively and removed when empty;
// all other at-rules are kept as written. Selectors that cannot be
// evaluated statically are kept.
package csspurge
