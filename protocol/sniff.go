package protocol

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/tembolo1284/go-matching-engine/domain"
)

// Decoder turns a session's inbound byte stream into Requests, one per
// framed message.
type Decoder interface {
	// ReadRequest blocks for the next message. It returns io.EOF when the
	// peer closed cleanly, or a wrapped protocol error (see errors.go) on
	// a malformed message — either return closes the Session.
	ReadRequest() (domain.Request, error)
}

// Encoder turns Events into wire bytes for a session's outbound stream.
type Encoder interface {
	WriteEvent(ev domain.Event) error
}

// Sniff peeks the connection's first byte without consuming it and
// reports whether it should be read as the binary frame protocol: per
// spec.md §9, printable ASCII selects CSV, anything else selects binary.
// The caller must pass the same *bufio.Reader on to NewDecoder so the
// peeked byte is still there to read.
func Sniff(r *bufio.Reader) (binaryMode bool, err error) {
	b, err := r.Peek(1)
	if err != nil {
		return false, err
	}
	first := b[0]
	return !(first >= 32 && first <= 126), nil
}

// NewDecoder builds the Decoder for the codec Sniff selected.
func NewDecoder(r *bufio.Reader, binaryMode bool) Decoder {
	if binaryMode {
		return &BinaryDecoder{r: r}
	}
	return &CSVDecoder{scanner: bufio.NewScanner(r)}
}

// NewEncoder builds the Encoder for the codec Sniff selected.
func NewEncoder(w io.Writer, binaryMode bool) Encoder {
	if binaryMode {
		return &BinaryEncoder{w: w}
	}
	return &CSVEncoder{w: w}
}

// CSVDecoder reads newline-delimited CSV messages. Blank lines are
// tolerated and skipped rather than treated as malformed, matching the
// "whitespace around fields ignored" tolerance spec.md §6.1 asks for.
type CSVDecoder struct {
	scanner *bufio.Scanner
}

func (d *CSVDecoder) ReadRequest() (domain.Request, error) {
	for d.scanner.Scan() {
		line := d.scanner.Text()
		if line == "" {
			continue
		}
		return DecodeCSVLine(line)
	}
	if err := d.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// CSVEncoder writes one '\n'-terminated line per element EncodeCSVEvent returns.
type CSVEncoder struct {
	w io.Writer
}

func (e *CSVEncoder) WriteEvent(ev domain.Event) error {
	for _, line := range EncodeCSVEvent(ev) {
		if _, err := io.WriteString(e.w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// BinaryDecoder reads length-prefixed frames (spec.md §6.2).
type BinaryDecoder struct {
	r io.Reader
}

func (d *BinaryDecoder) ReadRequest() (domain.Request, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(d.r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])

	payload := make([]byte, n)
	if _, err := io.ReadFull(d.r, payload); err != nil {
		return nil, err
	}
	return DecodeBinary(payload)
}

// BinaryEncoder writes one length-prefixed frame per element EncodeBinary returns.
type BinaryEncoder struct {
	w io.Writer
}

func (e *BinaryEncoder) WriteEvent(ev domain.Event) error {
	for _, payload := range EncodeBinary(ev) {
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
		if _, err := e.w.Write(lenBuf[:]); err != nil {
			return err
		}
		if _, err := e.w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}
