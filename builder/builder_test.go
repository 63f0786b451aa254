// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package builder_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/cert/builder"
	"github.com/luxfi/cert/field"
	"github.com/luxfi/cert/suite/ed25519suite"
)

func newTestBuilder(t *testing.T, maxSize int) *builder.Builder {
	t.Helper()
	b, err := builder.NewBuilder(builder.NewOptions(ed25519suite.New()), maxSize)
	require.NoError(t, err)
	return b
}

// Build then parse an int8 field.
func TestAddInt8Encoding(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, 64)
	require.NoError(b.AddInt8(0x1068, -27))

	require.Equal(5, b.Offset())
	require.Equal([]byte{0x10, 0x68, 0x00, 0x01, 0xE5}, b.Emit())
}

// Build an int16 field and confirm it lands big-endian on the wire.
func TestAddInt16Encoding(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, 64)
	require.NoError(b.AddInt16(0x1068, -768))

	require.Equal(6, b.Offset())
	require.Equal([]byte{0x10, 0x68, 0x00, 0x02, 0xFD, 0x00}, b.Emit())
}

// A value larger than the 16-bit wire size limit is rejected, not truncated.
func TestAddBufferTooBig(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, 70000)
	before := b.Offset()

	err := b.AddBuffer(0x2000, make([]byte, 65536))
	require.ErrorIs(err, builder.ErrTooBig)
	require.Equal(before, b.Offset(), "offset must not change on a failed append")
}

func TestAddUint32RoundTrip(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, 64)
	require.NoError(b.AddUint32(0x0001, 0xDEADBEEF))

	emitted := b.Emit()
	rec, err := field.ParseField(emitted, 0)
	require.NoError(err)
	require.Equal(uint16(0x0001), rec.Type)
	require.Equal([]byte{0xDE, 0xAD, 0xBE, 0xEF}, rec.Value)
}

func TestMonotoneOffset(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, 128)
	require.NoError(b.AddUint8(0x0001, 7))
	require.Equal(5, b.Offset())
	require.NoError(b.AddUint16(0x0002, 7))
	require.Equal(5+6, b.Offset())
	require.NoError(b.AddUint32(0x0003, 7))
	require.Equal(5+6+8, b.Offset())
	require.NoError(b.AddUint64(0x0004, 7))
	require.Equal(5+6+8+12, b.Offset())
}

func TestAddBufferRejectsInsufficientCapacity(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, 4)
	err := b.AddBuffer(0x0001, []byte{1})
	require.ErrorIs(err, builder.ErrBufferFull)
}

func TestSignAppendsSignerIDAndSignature(t *testing.T) {
	require := require.New(t)

	pub, priv, err := ed25519suite.GenerateKey()
	require.NoError(err)

	b, err := builder.NewBuilder(builder.NewOptions(ed25519suite.New()), 256)
	require.NoError(err)
	require.NoError(b.AddUint32(field.CertificateVersion, 0x00010000))

	signerID := uuid.New()
	require.NoError(b.Sign(signerID, priv))

	cert := b.Emit()

	// SIGNER_ID record immediately follows the version field (4-byte
	// header + 4-byte uint32 payload = offset 8).
	rec, err := field.ParseField(cert, 8)
	require.NoError(err)
	require.Equal(field.SignerID, rec.Type)
	require.Equal(signerID[:], rec.Value)

	sigRec, err := field.ParseField(cert, rec.Next)
	require.NoError(err)
	require.Equal(field.Signature, sigRec.Type)
	require.Len(sigRec.Value, ed25519suite.New().SignatureSize())

	suiteImpl := ed25519suite.New()
	message := cert[:rec.Next+field.HeaderSize]
	require.NoError(suiteImpl.Verify(pub, message, sigRec.Value))
}

func TestSignFailsWhenCapacityInsufficient(t *testing.T) {
	require := require.New(t)

	_, priv, err := ed25519suite.GenerateKey()
	require.NoError(err)

	b, err := builder.NewBuilder(builder.NewOptions(ed25519suite.New()), 10)
	require.NoError(err)

	err = b.Sign(uuid.New(), priv)
	require.ErrorIs(err, builder.ErrSignInvalidFieldSize)
}
