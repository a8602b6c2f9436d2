package imagetool

import (
	"io"

	"github.com/marcinbor85/gohex"
	"github.com/pkg/errors"
)

// ImportHex reads an Intel HEX file into an image. Each contiguous data
// segment becomes a section; the start linear address, when present,
// becomes the entry point.
func ImportHex(r io.Reader) (*Image, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, errors.Wrap(err, "parse intel hex")
	}
	img := &Image{}
	if entry, ok := mem.GetStartAddress(); ok {
		img.Entry = entry
	}
	for _, seg := range mem.GetDataSegments() {
		img.Segments = append(img.Segments, Segment{Address: seg.Address, Data: seg.Data})
	}
	if len(img.Segments) == 0 {
		return nil, errors.New("intel hex has no data")
	}
	return img, nil
}

// ExportHex writes the sections of img as Intel HEX with the entry point as
// start linear address.
func ExportHex(w io.Writer, img *Image) error {
	mem := gohex.NewMemory()
	mem.SetStartAddress(img.Entry)
	for _, s := range img.Segments {
		if err := mem.AddBinary(s.Address, s.Data); err != nil {
			return errors.Wrapf(err, "segment at 0x%08x", s.Address)
		}
	}
	return errors.Wrap(mem.DumpIntelHex(w, 16), "dump intel hex")
}

// ExportFlashHex writes a raw flash blob placed at base as Intel HEX,
// suitable for external programmers.
func ExportFlashHex(w io.Writer, base uint32, blob []byte) error {
	mem := gohex.NewMemory()
	if err := mem.AddBinary(base, blob); err != nil {
		return errors.Wrap(err, "add flash blob")
	}
	return errors.Wrap(mem.DumpIntelHex(w, 16), "dump intel hex")
}
