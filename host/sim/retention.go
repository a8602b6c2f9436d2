package sim

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
)

// FileRetention is retention memory persisted to a small file so that a
// command survives between simulated boots the way RTC memory survives a
// warm reset.
type FileRetention struct {
	path  string
	words []uint32
	err   error
}

// OpenFileRetention loads words from path. A missing file starts zeroed.
func OpenFileRetention(path string, words int) (*FileRetention, error) {
	r := &FileRetention{path: path, words: make([]uint32, words)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read retention file %s", path)
	}
	for i := range r.words {
		if (i+1)*4 > len(data) {
			break
		}
		r.words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return r, nil
}

func (r *FileRetention) LoadWords(off int, dst []uint32) {
	copy(dst, r.words[off:])
}

// StoreWords updates the words and writes the file through. A failed write
// is kept and reported by Err.
func (r *FileRetention) StoreWords(off int, src []uint32) {
	copy(r.words[off:], src)
	if err := r.save(); err != nil && r.err == nil {
		r.err = err
	}
}

// Words returns a copy of the current contents.
func (r *FileRetention) Words() []uint32 {
	return append([]uint32(nil), r.words...)
}

// Wipe zeroes the memory, as a power cycle does.
func (r *FileRetention) Wipe() error {
	for i := range r.words {
		r.words[i] = 0
	}
	return r.save()
}

// Err returns the first write-through failure.
func (r *FileRetention) Err() error {
	return r.err
}

func (r *FileRetention) save() error {
	data := make([]byte, 4*len(r.words))
	for i, w := range r.words {
		binary.LittleEndian.PutUint32(data[i*4:], w)
	}
	return errors.Wrapf(os.WriteFile(r.path, data, 0o644), "write retention file %s", r.path)
}
