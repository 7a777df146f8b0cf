package lime

import "sync/atomic"

// Handle is a scoped acquisition of an Extractor's backing file, adapted
// from the reference-counted Extractor nested class in
// original_source/unlime/unlime.h: the file opens on the first Handle
// acquired for a given Extractor, and closes when the last one is
// released. Handle has no exported fields and no Clone method; callers
// hold the *Handle that Acquire returns. Go does not stop a caller from
// copying the struct through that pointer, and each such copy would
// release the count on its own.
type Handle struct {
	ex    *Extractor
	freed bool
}

// Acquire opens a new Handle on e, opening e's backing file if this is the
// first outstanding handle.
func Acquire(e *Extractor) (*Handle, error) {
	if atomic.AddInt32(&e.handleCount, 1) == 1 {
		if err := e.openFile(); err != nil {
			atomic.AddInt32(&e.handleCount, -1)
			return nil, err
		}
	}
	return &Handle{ex: e}, nil
}

// Release closes this Handle. If it was the last outstanding handle on its
// Extractor, the backing file is closed. Release is safe to call more than
// once; subsequent calls are no-ops.
func (h *Handle) Release() error {
	if h.freed {
		return nil
	}
	h.freed = true
	if atomic.AddInt32(&h.ex.handleCount, -1) == 0 {
		return h.ex.closeFile()
	}
	return nil
}

// Get looks up (category, key) through the handle's Extractor. See
// Extractor.Get.
func (h *Handle) Get(category, key string) ([]byte, bool, error) {
	return h.ex.Get(category, key)
}
