package catalog

import "sync/atomic"

// Holder publishes the current Index. Swap replaces the whole table at once.
type Holder struct {
	current atomic.Pointer[Index]
}

// NewHolder creates a holder serving idx.
func NewHolder(idx *Index) *Holder {
	h := &Holder{}
	h.current.Store(idx)
	return h
}

// Current returns the index to use for one request.
func (h *Holder) Current() *Index {
	return h.current.Load()
}

// Swap publishes idx and returns the previous index.
func (h *Holder) Swap(idx *Index) *Index {
	return h.current.Swap(idx)
}

// Reload loads both files and swaps them in. On error the current index stays.
func (h *Holder) Reload(metadataPath, vectorsPath string) (*Index, error) {
	idx, err := Load(metadataPath, vectorsPath)
	if err != nil {
		return nil, err
	}
	h.Swap(idx)
	return idx, nil
}
