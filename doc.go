// Package multiverse is a commit engine for runtime function
// multi-versioning: it picks the best precompiled variant ("mvfn") of
// a managed function given the current values of a handful of tracked
// variables, and rewrites the process's own text segment so calls
// reach that variant.
//
// The package assumes a stop-the-world caller: nothing else in the
// process may execute inside a patched region while a commit is in
// flight. Descriptor discovery (matching compiled variants and patch
// points to functions) is the job of an external producer; this
// package only consumes the result through Registry.
package multiverse

// Verbose is the package's diagnostic verbosity flag, in the same
// spirit as the teacher tool's single global verbosity flag: a commit
// engine has no business owning a logging framework. The package emits
// no trace lines and no code reads Verbose, so setting it has no effect.
var Verbose bool
