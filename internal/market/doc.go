// Package market implements the expiry-window scheduling core: parsing
// expiry/strike/type out of market identifiers, grouping catalog entries
// by expiry date, and computing the bounded fetch window before each
// expiry.
//
// Parsing is best-effort: identifiers that do not match the expected
// shape are reported as unparseable, never as errors.
package market
