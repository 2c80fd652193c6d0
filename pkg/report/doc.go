// Package report implements the text report writer: a table with
// columns Serial, State, Product, Variant, Build, Battery, sorted by
// allocation-state name ascending then serial ascending.
package report
