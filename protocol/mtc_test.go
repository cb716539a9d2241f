package protocol

import "testing"

func TestQFAssemblerCommitsAfterEightFields(t *testing.T) {
	var a QFAssembler

	// Frames=0x0A, Seconds=0x1E, Minutes=0x05, Hours=0x01, Flags=0x2 (25fps).
	fields := []uint8{
		0<<4 | 0x0A&0x0F,
		1<<4 | (0x0A>>4)&0x0F,
		2<<4 | 0x1E&0x0F,
		3<<4 | (0x1E>>4)&0x0F,
		4<<4 | 0x05&0x0F,
		5<<4 | (0x05>>4)&0x0F,
		6<<4 | 0x01&0x0F,
		7<<4 | (0x01>>4)&0x0F | (0x02 << 1),
	}

	var committed bool
	var got SmpteTime
	for _, f := range fields[:7] {
		if _, ok := a.Add(f); ok {
			t.Fatalf("unexpected early commit on field %#x", f)
		}
	}
	got, committed = a.Add(fields[7])
	if !committed {
		t.Fatal("expected commit after 8th field")
	}
	want := SmpteTime{Flags: 0x02, Hours: 0x01, Minutes: 0x05, Seconds: 0x1E, Frames: 0x0A}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestQFAssemblerCommitsInAnyFieldOrder(t *testing.T) {
	var a QFAssembler

	// Same fields as TestQFAssemblerCommitsAfterEightFields, but delivered
	// out of order: a real MTC stream is always 0..7, but nothing in the
	// assembler's mask logic depends on that order, and a control port that
	// forwards unrelated traffic in between quarter frames could interleave
	// them arbitrarily.
	fields := []uint8{
		0<<4 | 0x0A&0x0F,
		1<<4 | (0x0A>>4)&0x0F,
		2<<4 | 0x1E&0x0F,
		3<<4 | (0x1E>>4)&0x0F,
		4<<4 | 0x05&0x0F,
		5<<4 | (0x05>>4)&0x0F,
		6<<4 | 0x01&0x0F,
		7<<4 | (0x01>>4)&0x0F | (0x02 << 1),
	}
	order := []int{5, 2, 7, 0, 6, 3, 1, 4}

	var committed bool
	var got SmpteTime
	for _, i := range order[:7] {
		if _, ok := a.Add(fields[i]); ok {
			t.Fatalf("unexpected early commit on field %#x", fields[i])
		}
	}
	got, committed = a.Add(fields[order[7]])
	if !committed {
		t.Fatal("expected commit once the 8th distinct field arrives")
	}
	want := SmpteTime{Flags: 0x02, Hours: 0x01, Minutes: 0x05, Seconds: 0x1E, Frames: 0x0A}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestQFAssemblerStartsFreshAfterCommit(t *testing.T) {
	var a QFAssembler
	for field := uint8(0); field < 8; field++ {
		a.Add(field << 4)
	}
	// Second frame, only partially received: should not commit.
	if _, ok := a.Add(0x00); ok {
		t.Fatal("unexpected commit before second frame completes")
	}
}

func TestDecodeMTCFullFrame(t *testing.T) {
	packet := []byte{0xF0, 0x7F, 0x00, 0x01, 0x01, 0x01, 0x05, 0x1E, 0x0A, 0xF7}
	got, ok := DecodeMTCFullFrame(packet)
	if !ok {
		t.Fatal("expected a successful decode")
	}
	want := SmpteTime{Hours: 0x01, Minutes: 0x05, Seconds: 0x1E, Frames: 0x0A}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDecodeMTCFullFrameRejectsWrongLength(t *testing.T) {
	if _, ok := DecodeMTCFullFrame([]byte{0xF0, 0x7F, 0x00, 0x01, 0x01, 0xF7}); ok {
		t.Fatal("expected decode to reject a short packet")
	}
}

func TestDecodeMMCLocate(t *testing.T) {
	packet := []byte{0xF0, 0x7F, 0x7F, 0x06, 0x44, 0x06, 0x01, 0x01, 0x05, 0x1E, 0x0A, 0x00, 0xF7}
	got, ok := DecodeMMCLocate(packet)
	if !ok {
		t.Fatal("expected a successful decode")
	}
	want := SmpteTime{Hours: 0x01, Minutes: 0x05, Seconds: 0x1E, Frames: 0x0A}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDecodeMMCLocateRejectsOtherCommands(t *testing.T) {
	packet := []byte{0xF0, 0x7F, 0x7F, 0x06, 0x02, 0xF7}
	if _, ok := DecodeMMCLocate(packet); ok {
		t.Fatal("expected decode to reject a non-locate MMC packet")
	}
}
