// Package manifest implements the ordered dictionary and INI-flavored
// manifest parser used by the Lime packer. A manifest declares, per
// section, the categories and keys a container will carry; sections whose
// name begins with '@' are meta-sections whose values are stored verbatim
// rather than treated as file paths.
//
// Adapted from the ordered-map idiom in original_source/lime/src/dict.h
// (DMap<T>, insertion-ordered, index-addressed), expressed here as a Go
// generic type instead of a template.
package manifest
