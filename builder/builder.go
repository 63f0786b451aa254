// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package builder appends strongly-typed fields to a certificate buffer
// and, on demand, finalizes it with a signer-id field and a signature
// field computed over everything written so far.
package builder

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/luxfi/log"

	"github.com/luxfi/cert/field"
	"github.com/luxfi/cert/suite"
)

var (
	// ErrInvalidArg is returned when the builder, its buffer, or an
	// append argument is nil or otherwise malformed.
	ErrInvalidArg = errors.New("builder: invalid argument")

	// ErrTooBig is returned when an appended value exceeds the wire
	// format's 16-bit size limit.
	ErrTooBig = errors.New("builder: value too big for a single field")

	// ErrBufferFull is returned when the remaining capacity of the
	// output buffer is smaller than the record being appended.
	ErrBufferFull = errors.New("builder: insufficient remaining capacity")

	// ErrSignInvalidFieldSize is returned by Sign when the output
	// buffer has no room left for the SIGNER_ID and SIGNATURE footer.
	ErrSignInvalidFieldSize = errors.New("builder: insufficient capacity for signer-id and signature footer")
)

// Options configures a Builder. Suite is required; Log defaults to a
// no-op logger, the same constructor-injection pattern a factory
// taking log.NewNoOpLogger() as a default collaborator uses.
type Options struct {
	Suite suite.Suite
	Log   log.Logger
}

// NewOptions returns Options with s as the signing suite and a no-op
// logger.
func NewOptions(s suite.Suite) Options {
	return Options{Suite: s, Log: log.NewNoOpLogger()}
}

// Builder accumulates field records into a capped buffer. It is not
// safe for concurrent use; distinct Builders over distinct buffers are
// independent.
type Builder struct {
	opts   Options
	buf    []byte
	offset int
}

// NewBuilder allocates a Builder with an output buffer capped at
// maxSize bytes.
func NewBuilder(opts Options, maxSize int) (*Builder, error) {
	if opts.Suite == nil {
		return nil, fmt.Errorf("%w: nil suite", ErrInvalidArg)
	}
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: maxSize must be positive, got %d", ErrInvalidArg, maxSize)
	}
	if opts.Log == nil {
		opts.Log = log.NewNoOpLogger()
	}
	return &Builder{
		opts: opts,
		buf:  make([]byte, maxSize),
	}, nil
}

// Offset returns the number of bytes written so far.
func (b *Builder) Offset() int {
	return b.offset
}

func (b *Builder) remaining() int {
	return len(b.buf) - b.offset
}

// appendRaw writes one field record: header then payload, verbatim.
func (b *Builder) appendRaw(fieldType uint16, payload []byte) error {
	if b == nil || b.buf == nil {
		return fmt.Errorf("%w: nil builder", ErrInvalidArg)
	}
	if len(payload) > field.MaxValueSize {
		return fmt.Errorf("%w: payload of %d bytes exceeds the %d-byte wire limit", ErrTooBig, len(payload), field.MaxValueSize)
	}

	recordSize := field.HeaderSize + len(payload)
	if recordSize > b.remaining() {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrBufferFull, recordSize, b.remaining())
	}

	field.WriteFieldHeader(b.buf, b.offset, fieldType, uint16(len(payload)))
	copy(b.buf[b.offset+field.HeaderSize:], payload)
	b.offset += recordSize

	b.opts.Log.Debug("builder: appended field", "type", fmt.Sprintf("0x%04x", fieldType), "size", len(payload), "offset", b.offset)
	return nil
}

// AddInt8 appends a signed 8-bit field.
func (b *Builder) AddInt8(fieldType uint16, v int8) error {
	return b.appendRaw(fieldType, []byte{byte(v)})
}

// AddUint8 appends an unsigned 8-bit field.
func (b *Builder) AddUint8(fieldType uint16, v uint8) error {
	return b.appendRaw(fieldType, []byte{v})
}

// AddInt16 appends a signed 16-bit big-endian field.
func (b *Builder) AddInt16(fieldType uint16, v int16) error {
	return b.AddUint16(fieldType, uint16(v))
}

// AddUint16 appends an unsigned 16-bit big-endian field.
func (b *Builder) AddUint16(fieldType uint16, v uint16) error {
	payload := make([]byte, 2)
	binary.BigEndian.PutUint16(payload, v)
	return b.appendRaw(fieldType, payload)
}

// AddInt32 appends a signed 32-bit big-endian field.
func (b *Builder) AddInt32(fieldType uint16, v int32) error {
	return b.AddUint32(fieldType, uint32(v))
}

// AddUint32 appends an unsigned 32-bit big-endian field.
func (b *Builder) AddUint32(fieldType uint16, v uint32) error {
	payload := make([]byte, 4)
	binary.BigEndian.PutUint32(payload, v)
	return b.appendRaw(fieldType, payload)
}

// AddInt64 appends a signed 64-bit big-endian field.
func (b *Builder) AddInt64(fieldType uint16, v int64) error {
	return b.AddUint64(fieldType, uint64(v))
}

// AddUint64 appends an unsigned 64-bit big-endian field.
func (b *Builder) AddUint64(fieldType uint16, v uint64) error {
	payload := make([]byte, 8)
	binary.BigEndian.PutUint64(payload, v)
	return b.appendRaw(fieldType, payload)
}

// AddBuffer appends an arbitrary byte buffer verbatim.
func (b *Builder) AddBuffer(fieldType uint16, v []byte) error {
	if v == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidArg)
	}
	return b.appendRaw(fieldType, v)
}

// AddUUID appends a 16-byte UUID field in its big-endian wire form.
func (b *Builder) AddUUID(fieldType uint16, v uuid.UUID) error {
	payload := v[:]
	return b.appendRaw(fieldType, payload)
}

// Sign finalizes the certificate: it appends the SIGNER_ID field, then
// a SIGNATURE field whose value is priv's signature over every byte
// written so far, including the SIGNATURE field's own header but not
// its (not yet written) value.
func (b *Builder) Sign(signerID uuid.UUID, priv suite.PrivateKey) error {
	if b == nil || b.buf == nil {
		return fmt.Errorf("%w: nil builder", ErrInvalidArg)
	}

	sigSize := b.opts.Suite.SignatureSize()
	signerIDRecordSize := field.HeaderSize + field.UUIDFieldSize
	signatureRecordSize := field.HeaderSize + sigSize
	if signerIDRecordSize+signatureRecordSize > b.remaining() {
		return fmt.Errorf("%w: need %d bytes for signer-id and signature, have %d", ErrSignInvalidFieldSize, signerIDRecordSize+signatureRecordSize, b.remaining())
	}

	if err := b.AddUUID(field.SignerID, signerID); err != nil {
		return fmt.Errorf("builder: writing signer id: %w", err)
	}

	field.WriteFieldHeader(b.buf, b.offset, field.Signature, uint16(sigSize))
	b.offset += field.HeaderSize

	message := b.buf[:b.offset]
	sig, err := b.opts.Suite.Sign(priv, message)
	if err != nil {
		return fmt.Errorf("builder: signing failed: %w", err)
	}
	if len(sig) != sigSize {
		return fmt.Errorf("builder: suite produced a %d-byte signature, expected %d", len(sig), sigSize)
	}

	copy(b.buf[b.offset:], sig)
	b.offset += sigSize

	b.opts.Log.Debug("builder: signed certificate", "signer", signerID.String(), "size", b.offset)
	return nil
}

// Emit returns a read-only view of the buffer written so far. The
// returned slice is backed by the Builder's internal buffer and must be
// copied out by the caller if it needs to outlive further use of b.
func (b *Builder) Emit() []byte {
	if b == nil {
		return nil
	}
	return b.buf[:b.offset]
}
