// Package layout holds the byte layouts shared by every side of a
// cross-implementation exchange: families, formats, artifact sizes,
// XMSS parameter sets and blob names.
package layout
