package sim

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// FileFlash is a NOR flash backed by a memory-mapped file. Erase fills a
// sector with 0xFF and writes can only clear bits.
type FileFlash struct {
	f          *os.File
	m          mmap.MMap
	sectorSize uint32
}

// OpenFileFlash maps path as a flash of size bytes. A missing or shorter
// file is extended with erased bytes.
func OpenFileFlash(path string, size, sectorSize uint32) (*FileFlash, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open flash file %s", path)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "stat flash file")
	}
	old := st.Size()
	if old != int64(size) {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "resize flash file")
		}
	}
	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "map flash file")
	}
	for i := old; i < int64(size); i++ {
		m[i] = 0xFF
	}
	return &FileFlash{f: f, m: m, sectorSize: sectorSize}, nil
}

func (ff *FileFlash) check(addr uint32, n int) error {
	if uint64(addr)+uint64(n) > uint64(len(ff.m)) {
		return errors.Errorf("flash access 0x%x+%d past end 0x%x", addr, n, len(ff.m))
	}
	return nil
}

func (ff *FileFlash) EraseSector(sector uint32) error {
	addr := sector * ff.sectorSize
	if err := ff.check(addr, int(ff.sectorSize)); err != nil {
		return err
	}
	s := ff.m[addr : addr+ff.sectorSize]
	for i := range s {
		s[i] = 0xFF
	}
	return nil
}

func (ff *FileFlash) Read(addr uint32, buf []byte) error {
	if err := ff.check(addr, len(buf)); err != nil {
		return err
	}
	copy(buf, ff.m[addr:])
	return nil
}

func (ff *FileFlash) Write(addr uint32, buf []byte) error {
	if err := ff.check(addr, len(buf)); err != nil {
		return err
	}
	for i, b := range buf {
		ff.m[int(addr)+i] &= b
	}
	return nil
}

// Bytes exposes the mapped image. It is valid until Close.
func (ff *FileFlash) Bytes() []byte {
	return ff.m
}

// Size returns the flash size in bytes.
func (ff *FileFlash) Size() uint32 {
	return uint32(len(ff.m))
}

// Flush writes dirty pages back to the file.
func (ff *FileFlash) Flush() error {
	return errors.Wrap(ff.m.Flush(), "flush flash file")
}

// Close flushes and unmaps the file.
func (ff *FileFlash) Close() error {
	ferr := ff.m.Flush()
	uerr := ff.m.Unmap()
	cerr := ff.f.Close()
	switch {
	case ferr != nil:
		return errors.Wrap(ferr, "flush flash file")
	case uerr != nil:
		return errors.Wrap(uerr, "unmap flash file")
	default:
		return errors.Wrap(cerr, "close flash file")
	}
}
