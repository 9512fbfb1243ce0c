package bbytes

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

func NewReader(bs []byte) *Reader {
	return &Reader{data: bs}
}

func (r *Reader) Len() int {
	return len(r.data)
}

func (r *Reader) Offset() int {
	return r.offset
}

func (r *Reader) Remaining() int {
	return len(r.data) - r.offset
}

func (r *Reader) EOF() bool {
	return r.offset >= len(r.data)
}

func (r *Reader) Seek(offset int) {
	r.offset = offset
}

func (r *Reader) Skip(n int) {
	r.offset += n
}

// ReadBytes returns a view of the next n bytes. The slice aliases the
// reader's backing array; callers that keep it must copy.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.offset < 0 || r.offset+n > len(r.data) {
		return nil, errors.Errorf(
			"read of %d bytes at offset %d overruns buffer of %d bytes",
			n, r.offset, len(r.data),
		)
	}
	bs := r.data[r.offset : r.offset+n]
	r.offset += n
	return bs, nil
}

func (r *Reader) ReadByte() (byte, error) {
	bs, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return bs[0], nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	bs, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(bs), nil
}

func (r *Reader) ReadInt16() (int16, error) {
	value, err := r.ReadUint16()
	return int16(value), err
}

func (r *Reader) ReadUint32() (uint32, error) {
	bs, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(bs), nil
}

func (r *Reader) ReadInt32() (int32, error) {
	value, err := r.ReadUint32()
	return int32(value), err
}

func (r *Reader) ReadUint64() (uint64, error) {
	bs, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(bs), nil
}

// ReadPString reads a Pascal-style string: one length byte followed by that
// many bytes of text.
func (r *Reader) ReadPString() ([]byte, error) {
	length, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	bs, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, errors.Wrap(err, "ReadPString error: read string body")
	}
	return bs, nil
}
