package limedata

import (
	"go.chromium.org/luci/common/errors"
)

// DictItem is the directory record for one stored entity: where its
// compressed bytes begin (SeekID, an absolute offset from the start of the
// container), how many compressed bytes it occupies (Size), and the
// checksum of its *uncompressed* form under the container's checksum scheme.
type DictItem struct {
	SeekID   uint64
	Size     uint64
	Checksum uint32
}

// DirEntry is one (key, DictItem) pair within a category, kept in insertion
// order by Directory.
type DirEntry struct {
	Key  string
	Item DictItem
}

// DirCategory is one category's ordered list of entries.
type DirCategory struct {
	Name    string
	Entries []DirEntry
}

// Directory is the in-memory form of a container's table of contents:
// an ordered list of categories, each with an ordered list of entries. Order
// is preserved end to end, matching the order entries were added.
type Directory struct {
	Categories []DirCategory
}

// Add records item under (category, key), appending a new category if one
// by that name hasn't been seen yet, matching the manifest's own
// insertion order (the caller is responsible for walking categories and
// keys in manifest order).
func (d *Directory) Add(category, key string, item DictItem) {
	for i := range d.Categories {
		if d.Categories[i].Name == category {
			d.Categories[i].Entries = append(d.Categories[i].Entries, DirEntry{Key: key, Item: item})
			return
		}
	}
	d.Categories = append(d.Categories, DirCategory{
		Name:    category,
		Entries: []DirEntry{{Key: key, Item: item}},
	})
}

// Lookup finds the DictItem for (category, key). found is false if either
// the category or the key is absent; this is not an error.
func (d *Directory) Lookup(category, key string) (item DictItem, found bool) {
	for _, c := range d.Categories {
		if c.Name != category {
			continue
		}
		for _, e := range c.Entries {
			if e.Key == key {
				return e.Item, true
			}
		}
		return DictItem{}, false
	}
	return DictItem{}, false
}

// Encode serializes the directory to its uncompressed on-disk form:
// u32 category count, then per category a u8-length-prefixed
// name, u32 entry count, then per entry a u8-length-prefixed key, u64
// seek_id, u64 size and (iff scheme carries a per-item field) a u32
// checksum.
func (d *Directory) Encode(scheme ChecksumScheme) []byte {
	buf := make([]byte, 0, 256)
	buf = PutU32(buf, uint32(len(d.Categories)))
	for _, c := range d.Categories {
		buf = PutString(buf, c.Name)
		buf = PutU32(buf, uint32(len(c.Entries)))
		for _, e := range c.Entries {
			buf = PutString(buf, e.Key)
			buf = PutU64(buf, e.Item.SeekID)
			buf = PutU64(buf, e.Item.Size)
			if scheme.HasPerItemField() {
				buf = PutU32(buf, e.Item.Checksum)
			}
		}
	}
	return buf
}

// DecodeDirectory parses the uncompressed on-disk directory form produced
// by Encode.
func DecodeDirectory(buf []byte, scheme ChecksumScheme) (*Directory, error) {
	at := 0
	nCategories, err := GetU32(buf, &at)
	if err != nil {
		return nil, errors.Annotate(err, "reading category count").Err()
	}

	d := &Directory{Categories: make([]DirCategory, 0, nCategories)}
	for i := uint32(0); i < nCategories; i++ {
		name, err := GetString(buf, &at)
		if err != nil {
			return nil, errors.Annotate(err, "reading category %d name", i).Err()
		}
		nEntries, err := GetU32(buf, &at)
		if err != nil {
			return nil, errors.Annotate(err, "reading category %q entry count", name).Err()
		}
		cat := DirCategory{Name: name, Entries: make([]DirEntry, 0, nEntries)}
		for j := uint32(0); j < nEntries; j++ {
			key, err := GetString(buf, &at)
			if err != nil {
				return nil, errors.Annotate(err, "reading category %q entry %d key", name, j).Err()
			}
			seekID, err := GetU64(buf, &at)
			if err != nil {
				return nil, errors.Annotate(err, "reading %q/%q seek_id", name, key).Err()
			}
			size, err := GetU64(buf, &at)
			if err != nil {
				return nil, errors.Annotate(err, "reading %q/%q size", name, key).Err()
			}
			var checksum uint32
			if scheme.HasPerItemField() {
				checksum, err = GetU32(buf, &at)
				if err != nil {
					return nil, errors.Annotate(err, "reading %q/%q checksum", name, key).Err()
				}
			}
			cat.Entries = append(cat.Entries, DirEntry{
				Key:  key,
				Item: DictItem{SeekID: seekID, Size: size, Checksum: checksum},
			})
		}
		d.Categories = append(d.Categories, cat)
	}
	return d, nil
}
