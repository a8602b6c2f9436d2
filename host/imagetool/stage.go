package imagetool

import (
	"github.com/pkg/errors"

	"gopper-eboot/bootcmd"
	"gopper-eboot/core"
	"gopper-eboot/protocol"
)

// StageRequest describes an update to hand to the bootloader.
type StageRequest struct {
	Blob     []byte // slot contents: padding plus image
	Src      uint32 // staging area, sector aligned
	Dst      uint32 // final slot, sector aligned
	Compress bool   // gzip Blob before writing it
}

// Stage writes the update into the staging area and records a COPY_RAW
// command for the bootloader. It returns the command as written.
func Stage(flash core.FlashDriver, store *bootcmd.Store, layout core.Layout, req StageRequest) (protocol.Command, error) {
	if !layout.Aligned(req.Src) || !layout.Aligned(req.Dst) {
		return protocol.Command{}, errors.Errorf("src 0x%x / dst 0x%x not aligned to 0x%x", req.Src, req.Dst, layout.SectorSize)
	}
	payload := req.Blob
	if req.Compress {
		var err error
		if payload, err = Gzip(req.Blob); err != nil {
			return protocol.Command{}, err
		}
	}
	if err := WriteRegion(flash, layout, req.Src, payload); err != nil {
		return protocol.Command{}, errors.Wrap(err, "write staging area")
	}
	cmd := protocol.NewCopyRaw(req.Src, req.Dst, uint32(len(payload)))
	if err := store.Write(&cmd); err != nil {
		return cmd, errors.Wrap(err, "write boot command")
	}
	return cmd, nil
}

// WriteRegion erases the sectors covering data at addr and programs it.
func WriteRegion(flash core.FlashDriver, layout core.Layout, addr uint32, data []byte) error {
	if !layout.Aligned(addr) {
		return errors.Errorf("address 0x%x not sector aligned", addr)
	}
	end := addr + uint32(len(data))
	for a := addr; a < end; a += layout.SectorSize {
		if err := flash.EraseSector(a / layout.SectorSize); err != nil {
			return errors.Wrapf(err, "erase sector 0x%x", a)
		}
	}
	if err := flash.Write(addr, data); err != nil {
		return errors.Wrapf(err, "write 0x%x", addr)
	}
	return nil
}
