package capture

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// Record is one archived capture together with its decode result.
type Record struct {
	ID       uuid.UUID `cbor:"1,keyasint"`
	Time     time.Time `cbor:"2,keyasint"`
	Source   string    `cbor:"3,keyasint,omitempty"`
	Line     int       `cbor:"4,keyasint,omitempty"`
	Label    string    `cbor:"5,keyasint,omitempty"`
	Pulses   []uint32  `cbor:"6,keyasint"`
	Protocol string    `cbor:"7,keyasint,omitempty"`
	Scancode uint32    `cbor:"8,keyasint,omitempty"`
	Error    string    `cbor:"9,keyasint,omitempty"`
}

// Decoded reports whether the capture was decoded successfully.
func (r Record) Decoded() bool {
	return r.Error == "" && r.Protocol != ""
}

var (
	archiveEncMode cbor.EncMode
	archiveDecMode cbor.DecMode
)

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	archiveEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create archive CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	archiveDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create archive CBOR decoder mode: %v", err))
	}
}

// Writer appends records to a CBOR stream. It is safe for concurrent use.
type Writer struct {
	mu      sync.Mutex
	closer  io.Closer
	encoder *cbor.Encoder
	now     func() time.Time
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{encoder: archiveEncMode.NewEncoder(w), now: time.Now}
}

// CreateArchive opens path for appending, creating it if needed.
func CreateArchive(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// Write stores rec, assigning an ID and timestamp if they are unset.
func (w *Writer) Write(rec *Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Time.IsZero() {
		rec.Time = w.now()
	}
	return w.encoder.Encode(rec)
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closer == nil {
		return nil
	}
	err := w.closer.Close()
	w.closer = nil
	return err
}

// Reader iterates over the records of an archive.
type Reader struct {
	closer  io.Closer
	decoder *cbor.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{decoder: archiveDecMode.NewDecoder(r)}
}

func OpenArchive(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewReader(f)
	r.closer = f
	return r, nil
}

// Next returns the next record, or io.EOF at the end of the archive.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.decoder.Decode(&rec); err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, err
	}
	return rec, nil
}

// All reads the remaining records.
func (r *Reader) All() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
