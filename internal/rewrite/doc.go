// Package rewrite re-anchors relative path references inside rules and
// commands so they still resolve once the files are installed below a
// target's tool root.
//
// A token qualifies only when it resolves, from the artifact's source
// directory, to a file that exists. Tokens inside example code are matched
// the same way as tokens in prose; the existence check is what keeps
// illustrative paths untouched.
package rewrite
