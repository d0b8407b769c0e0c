// Package table defines the format-agnostic data model for tabular
// configuration sources: the raw Workbook/Sheet grid read from disk, the
// closed set of cell types a column may declare, and the CompiledSheet
// mapping produced by coercion. The concrete YAML workbook loader lives
// here too, behind the Loader interface, so the container format stays
// swappable without touching the compiler.
package table
