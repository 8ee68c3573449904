// Package common holds enumerations shared by configuration and the annotation
// engine so neither has to import the other.
package common

//go:generate go tool go-enum --marshal --names --nocase

// Specification of what happens when input spans are malformed or unbalanced:
// fail-fast rejects the whole document on the first inconsistency,
// best-effort drops offending spans, logs them and carries on.
// ENUM(fail-fast, best-effort)
type Policy int

// Specification of how overlapping spans are turned into markup: flatten
// emits non-overlapping segments classed with the union of all labels active
// over each segment, nest keeps one tag per label and splits only spans that
// cross.
// ENUM(flatten, nest)
type Strategy int

// Units span bounds are expressed in.
// ENUM(byte, rune, utf16)
type OffsetUnit int
