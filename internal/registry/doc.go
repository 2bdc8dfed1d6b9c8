// Package registry maps runner type names (what a rigfile's step blocks
// name) to their Go implementations. Modules self-register at startup, and
// the registry validates the loaded model against what is actually
// available.
package registry
