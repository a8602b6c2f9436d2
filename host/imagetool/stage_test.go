package imagetool

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"gopper-eboot/bootcmd"
	"gopper-eboot/core"
	"gopper-eboot/core/coretest"
	"gopper-eboot/protocol"
)

func stageRig() (*coretest.Flash, *bootcmd.Store, core.Layout) {
	layout := core.DefaultLayout()
	layout.DurableSlots = 0
	flash := coretest.NewFlash(0x40000, layout.SectorSize)
	store := bootcmd.New(coretest.NewRetention(protocol.CommandWords), flash, layout)
	return flash, store, layout
}

func TestStageRaw(t *testing.T) {
	flash, store, layout := stageRig()
	blob := bytes.Repeat([]byte{0x12, 0x34}, 0x900)
	cmd, err := Stage(flash, store, layout, StageRequest{Blob: blob, Src: 0x20000, Dst: 0x1000})
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if cmd.Action != protocol.ActionCopyRaw || cmd.Args[protocol.ArgSize] != uint32(len(blob)) {
		t.Errorf("command = %+v", cmd)
	}
	if !bytes.Equal(flash.Data[0x20000:0x20000+len(blob)], blob) {
		t.Error("staging area does not hold the blob")
	}

	var got protocol.Command
	if !store.Read(&got) {
		t.Fatal("no command stored")
	}
	if got.Args[protocol.ArgSrc] != 0x20000 || got.Args[protocol.ArgDst] != 0x1000 {
		t.Errorf("stored command = %+v", got)
	}
}

func TestStageCompressed(t *testing.T) {
	flash, store, layout := stageRig()
	blob := bytes.Repeat([]byte("eboot"), 2000)
	cmd, err := Stage(flash, store, layout, StageRequest{Blob: blob, Src: 0x20000, Dst: 0x1000, Compress: true})
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	size := cmd.Args[protocol.ArgSize]
	if size >= uint32(len(blob)) {
		t.Fatalf("compressed size %d not smaller than %d", size, len(blob))
	}
	zr, err := gzip.NewReader(bytes.NewReader(flash.Data[0x20000 : 0x20000+size]))
	if err != nil {
		t.Fatalf("staged data is not gzip: %v", err)
	}
	out, _ := io.ReadAll(zr)
	if !bytes.Equal(out, blob) {
		t.Error("staged gzip does not inflate to the blob")
	}
}

func TestStageRejectsUnaligned(t *testing.T) {
	flash, store, layout := stageRig()
	if _, err := Stage(flash, store, layout, StageRequest{Blob: []byte{1}, Src: 0x20010, Dst: 0x1000}); err == nil {
		t.Error("unaligned src accepted")
	}
	if flash.Writes != 0 {
		t.Error("flash written for rejected request")
	}
}

func TestWriteRegionEraseFailure(t *testing.T) {
	flash, _, layout := stageRig()
	flash.FailErase[0x21] = true
	err := WriteRegion(flash, layout, 0x20000, make([]byte, 0x1800))
	if err == nil {
		t.Fatal("WriteRegion succeeded")
	}
	if flash.Writes != 0 {
		t.Error("data written after failed erase")
	}
}
