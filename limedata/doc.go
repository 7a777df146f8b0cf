// Package limedata implements the low-level binary codec shared by the Lime
// packer and extractor: big-endian fixed-width integers, length-prefixed
// strings, the begin/end marker pairs that identify a container's checksum
// algorithm, the checksum schemes themselves, the DEFLATE compression
// engine, and the on-disk directory (dictionary) encoding.
//
// Nothing in this package touches a filesystem path or a manifest; it only
// knows how to turn Go values into container bytes and back.
package limedata
