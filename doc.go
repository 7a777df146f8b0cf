// Package lime implements the Lime container format: a Packer that turns an
// INI-flavored resource manifest into a single compressed,
// integrity-protected binary container, and an Extractor that opens such a
// container and serves resource payloads by (category, key) on demand.
//
// Adapted from the structure of github.com/riannucci/sarchive's sar
// package (Open/OpenedArchive, CreateFromPath), generalized to Lime's
// simpler directory format: a flat category -> key -> DictItem map with the
// directory placed after the payload region, rather than sarchive's
// protobuf table of contents placed before it.
package lime
