package monitor

import (
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	testCases := []struct {
		line string
		kind Kind
		code uint8
		ok   bool
	}{
		{"cp:0", KindCopy, 0, true},
		{"cp:5", KindCopy, 5, false},
		{"ld", KindLoad, 0, true},
		{"ld\r", KindLoad, 0, true},
		{"e:2", KindLoadError, 2, false},
		{"e:x", KindLoadError, 9, false},
		{" ets Jan  8 2013,rst cause:2, boot mode:(3,6)", KindText, 0, true},
		{"cp:12", KindText, 0, true},
	}
	for _, tc := range testCases {
		ev := Decode(tc.line)
		if ev.Kind != tc.kind || ev.Code != tc.code || ev.OK != tc.ok {
			t.Errorf("Decode(%q) = %+v", tc.line, ev)
		}
	}
}

func TestDecodeMeaning(t *testing.T) {
	if ev := Decode("cp:5"); !strings.Contains(ev.Meaning, "verify") {
		t.Errorf("cp:5 meaning = %q", ev.Meaning)
	}
	if ev := Decode("e:4"); !strings.Contains(ev.Meaning, "magic") {
		t.Errorf("e:4 meaning = %q", ev.Meaning)
	}
}

func TestScan(t *testing.T) {
	input := "\r\n ets Jan  8 2013\r\ncp:0\nld\n"
	var kinds []Kind
	err := Scan(strings.NewReader(input), func(ev Event) {
		kinds = append(kinds, ev.Kind)
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []Kind{KindText, KindText, KindCopy, KindLoad}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestDecoderSplitsWrites(t *testing.T) {
	var got []Event
	dec := NewDecoder(func(ev Event) { got = append(got, ev) })
	dec.Write([]byte("c"))
	dec.Write([]byte("p:3\nl"))
	dec.PutChar('d')
	if len(got) != 1 {
		t.Fatalf("events before flush = %d, want 1", len(got))
	}
	dec.Flush()
	if len(got) != 2 {
		t.Fatalf("events after flush = %d, want 2", len(got))
	}
	if got[0].Kind != KindCopy || got[0].Code != 3 {
		t.Errorf("first event = %+v", got[0])
	}
	if got[1].Kind != KindLoad {
		t.Errorf("second event = %+v", got[1])
	}
}
