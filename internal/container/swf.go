package container

import (
	"bytes"
	"compress/zlib"
	"fmt"
)

// SWFOptions controls the movie envelope BuildSWF wraps an ABC blob in
// (§6 "Output").
type SWFOptions struct {
	// Sprite names the SymbolClass entry associated with the ABC blob:
	// "Wrapper" when --sprite requested a thin Sprite subclass, "Instance"
	// (the synthesized class itself) otherwise.
	Sprite string

	// Compress wraps the body in zlib ("CWS" signature) rather than leaving
	// it uncompressed ("FWS").
	Compress bool
}

const (
	stageWidthTwips  = 10000
	stageHeightTwips = 7500
	frameRate24      = 24
)

// BuildSWF wraps abcBytes in a minimal movie: one frame, one DoABC tag
// carrying the compiled class, and a SymbolClass entry exposing it to the
// Flash loader (§6 "Output").
func BuildSWF(abcBytes []byte, opts SWFOptions) ([]byte, error) {
	body := &byteWriter{}
	writeRect(body, stageWidthTwips, stageHeightTwips)
	body.u16le(uint16(frameRate24) << 8) // frame rate as 8.8 fixed, whole-number fps
	body.u16le(1)                        // frame_count

	writeTag(body, tagFileAttributes, encodeFileAttributes())
	writeTag(body, tagFrameLabel, encodeFrameLabel("frame1"))
	writeTag(body, tagDoABC, encodeDoABC("frame1", abcBytes))
	writeTag(body, tagSymbolClass, encodeSymbolClass(opts.Sprite))
	writeTag(body, tagShowFrame, nil)
	writeTag(body, tagEnd, nil)

	header := &byteWriter{}
	sig := "FWS"
	payload := body.buf
	if opts.Compress {
		sig = "CWS"
		compressed, err := zlibCompress(payload)
		if err != nil {
			return nil, fmt.Errorf("container: compressing swf body: %w", err)
		}
		payload = compressed
	}
	header.bytes([]byte(sig))
	header.byte(6) // version: matches AVM2-capable players
	header.u32le(uint32(8 + len(payload)))
	header.bytes(payload)
	return header.buf, nil
}

func zlibCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeRect appends a RECT record covering [0, xMax] x [0, yMax] in twips,
// using the encoding the SWF header requires: a 5-bit nbits prefix followed
// by four nbits-wide fields (nbits here always chosen wide enough for
// stage-sized values).
func writeRect(w *byteWriter, xMax, yMax int32) {
	const nbits = 17 // comfortably covers a 10000x7500-twip stage
	bw := &bitWriter{}
	bw.write(uint32(nbits), 5)
	bw.write(uint32(0), nbits)
	bw.write(uint32(xMax), nbits)
	bw.write(uint32(0), nbits)
	bw.write(uint32(yMax), nbits)
	w.bytes(bw.bytes())
}

// bitWriter packs fields MSB-first into bytes, as SWF's RECT record requires.
type bitWriter struct {
	buf      []byte
	bitsLeft uint
}

func (bw *bitWriter) write(v uint32, nbits uint) {
	for i := int(nbits) - 1; i >= 0; i-- {
		bit := byte((v >> uint(i)) & 1)
		if bw.bitsLeft == 0 {
			bw.buf = append(bw.buf, 0)
			bw.bitsLeft = 8
		}
		bw.buf[len(bw.buf)-1] |= bit << (bw.bitsLeft - 1)
		bw.bitsLeft--
	}
}

func (bw *bitWriter) bytes() []byte {
	return bw.buf
}

// Tag codes this package emits (§6 "Tags in order").
const (
	tagEnd            = 0
	tagShowFrame       = 1
	tagDoABC          = 82
	tagSymbolClass    = 76
	tagFrameLabel     = 43
	tagFileAttributes = 69
)

// writeTag appends a SWF tag record: a short or long header (code<<6 |
// length, or code<<6|0x3f followed by a u32 length for bodies >= 0x3f
// bytes) plus the body.
func writeTag(w *byteWriter, code uint16, body []byte) {
	if len(body) < 0x3f {
		w.u16le(code<<6 | uint16(len(body)))
		w.bytes(body)
		return
	}
	w.u16le(code<<6 | 0x3f)
	w.u32le(uint32(len(body)))
	w.bytes(body)
}

// encodeFileAttributes sets the ActionScript3 and UseNetwork flags (§6
// "flags {actionScript3, useNetwork}"); bit positions per the FileAttributes
// tag's fixed 32-bit layout.
func encodeFileAttributes() []byte {
	w := &byteWriter{}
	const (
		actionScript3 = 1 << 3
		useNetwork    = 1 << 0
	)
	w.u32le(actionScript3 | useNetwork)
	return w.buf
}

// encodeFrameLabel writes a FrameLabel tag body: a NUL-terminated string.
func encodeFrameLabel(name string) []byte {
	w := &byteWriter{}
	w.bytes([]byte(name))
	w.byte(0)
	return w.buf
}

// encodeDoABC writes a DoABC tag body: a u32 flags field (0, meaning
// executed eagerly), a NUL-terminated name, then the raw ABC bytes.
func encodeDoABC(name string, abcBytes []byte) []byte {
	w := &byteWriter{}
	w.u32le(0)
	w.bytes([]byte(name))
	w.byte(0)
	w.bytes(abcBytes)
	return w.buf
}

// encodeSymbolClass writes a SymbolClass tag body exposing className bound
// to character id 0 (the main timeline itself, since this compiler never
// emits separate DefineSprite characters).
func encodeSymbolClass(className string) []byte {
	w := &byteWriter{}
	w.u16le(1) // num_symbols
	w.u16le(0) // character id: the main timeline
	w.bytes([]byte(className))
	w.byte(0)
	return w.buf
}
