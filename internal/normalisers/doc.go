// Package normalisers groups the text and payload normalisers used before
// grouping and matching:
//
//   - text: comparison keys from free text (accents, punctuation, tokens)
//   - fresq: folding of etape references into detail lists
package normalisers
