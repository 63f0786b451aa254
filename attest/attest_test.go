// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package attest_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/luxfi/cert/attest"
	"github.com/luxfi/cert/builder"
	"github.com/luxfi/cert/field"
	"github.com/luxfi/cert/parser"
	"github.com/luxfi/cert/resolver"
	"github.com/luxfi/cert/resolver/resolvermock"
	"github.com/luxfi/cert/suite"
	"github.com/luxfi/cert/suite/ed25519suite"
)

// fixedKeyResolver answers EntityKey for exactly one signer. Contract
// fails with contractFail when it is set; otherwise it answers every
// (transaction type, artifact) pair with a closure returning contractOK.
type fixedKeyResolver struct {
	signer       uuid.UUID
	pub          suite.PublicKey
	contractOK   bool
	contractFail error
}

func (r fixedKeyResolver) EntityKey(_ context.Context, _ any, _ uint64, entityID uuid.UUID) (resolver.Keys, error) {
	if entityID != r.signer {
		return resolver.Keys{}, resolver.ErrNotFound
	}
	return resolver.Keys{PublicSigningKey: r.pub}, nil
}

func (fixedKeyResolver) Transaction(context.Context, any, uuid.UUID, *uuid.UUID) (resolver.Transaction, error) {
	return resolver.Transaction{}, resolver.ErrNotFound
}

func (fixedKeyResolver) ArtifactState(context.Context, any, uuid.UUID) (resolver.ArtifactState, error) {
	return resolver.ArtifactState{State: -1}, resolver.ErrNotFound
}

func (r fixedKeyResolver) Contract(_ context.Context, _ any, _ uuid.UUID, _ uuid.UUID) (*resolver.ContractClosure, error) {
	if r.contractFail != nil {
		return nil, r.contractFail
	}
	ok := r.contractOK
	return &resolver.ContractClosure{
		Verify: func(context.Context, any, any) (bool, error) {
			return ok, nil
		},
	}, nil
}

type certFixture struct {
	cert     []byte
	signer   uuid.UUID
	pub      suite.PublicKey
	priv     suite.PrivateKey
	txnType  uuid.UUID
	artifact uuid.UUID
}

func buildSignedCert(t *testing.T, withTxnFields bool) certFixture {
	t.Helper()

	pub, priv, err := ed25519suite.GenerateKey()
	require.NoError(t, err)

	b, err := builder.NewBuilder(builder.NewOptions(ed25519suite.New()), 4096)
	require.NoError(t, err)

	require.NoError(t, b.AddUint32(field.CertificateVersion, 0x00010000))
	require.NoError(t, b.AddInt64(field.CertificateValidFrom, 1515987826))
	require.NoError(t, b.AddUint8(field.CertificateCryptoSuite, 1))

	txnType := uuid.New()
	artifact := uuid.New()
	if withTxnFields {
		require.NoError(t, b.AddUUID(field.TransactionType, txnType))
		require.NoError(t, b.AddUUID(field.ArtifactID, artifact))
		require.NoError(t, b.AddInt32(field.PreviousArtifactState, 2))
		require.NoError(t, b.AddInt32(field.NewArtifactState, 3))
	}

	signer := uuid.New()
	require.NoError(t, b.Sign(signer, priv))

	return certFixture{
		cert:     b.Emit(),
		signer:   signer,
		pub:      pub,
		priv:     priv,
		txnType:  txnType,
		artifact: artifact,
	}
}

func newParser(t *testing.T, cert []byte, r resolver.Resolver) *parser.Parser {
	t.Helper()
	p, err := parser.NewParser(parser.NewOptions(ed25519suite.New(), r), cert)
	require.NoError(t, err)
	return p
}

// Happy-path attestation: a well-formed, correctly signed certificate with contract fields.
func TestAttestHappyPath(t *testing.T) {
	require := require.New(t)

	fx := buildSignedCert(t, true)
	r := fixedKeyResolver{signer: fx.signer, pub: fx.pub, contractOK: true}
	p := newParser(t, fx.cert, r)

	engine := attest.NewEngine(attest.Options{})
	err := engine.Attest(context.Background(), p, 77, true)
	require.NoError(err)
	require.Equal(len(fx.cert)-(field.HeaderSize+ed25519suite.New().SignatureSize()), p.AttestedLength())
}

// A certificate with no SIGNER_ID field fails at the first state.
func TestAttestMissingSigner(t *testing.T) {
	require := require.New(t)

	b, err := builder.NewBuilder(builder.NewOptions(ed25519suite.New()), 4096)
	require.NoError(err)
	require.NoError(b.AddUint32(field.CertificateVersion, 0x00010000))

	p := newParser(t, b.Emit(), resolver.AlwaysFail{})
	engine := attest.NewEngine(attest.Options{})

	err = engine.Attest(context.Background(), p, 77, false)
	require.ErrorIs(err, attest.ErrMissingSignerUUID)
}

// Zeroing the signature bytes after signing must fail verification.
func TestAttestTamperedSignature(t *testing.T) {
	require := require.New(t)

	fx := buildSignedCert(t, true)
	sigSize := ed25519suite.New().SignatureSize()
	tampered := append([]byte(nil), fx.cert...)
	for i := len(tampered) - sigSize; i < len(tampered); i++ {
		tampered[i] = 0
	}

	r := fixedKeyResolver{signer: fx.signer, pub: fx.pub}
	p := newParser(t, tampered, r)
	engine := attest.NewEngine(attest.Options{})

	err := engine.Attest(context.Background(), p, 77, false)
	require.ErrorIs(err, attest.ErrSignatureMismatch)
}

// A certificate missing transaction fields fails contract attestation but still
// passes signature-only attestation.
func TestAttestMissingTransactionType(t *testing.T) {
	require := require.New(t)

	fx := buildSignedCert(t, false)
	r := fixedKeyResolver{signer: fx.signer, pub: fx.pub, contractOK: true}

	p := newParser(t, fx.cert, r)
	engine := attest.NewEngine(attest.Options{})
	err := engine.Attest(context.Background(), p, 77, true)
	require.ErrorIs(err, attest.ErrMissingTransactionType)

	p2 := newParser(t, fx.cert, r)
	err = engine.Attest(context.Background(), p2, 77, false)
	require.NoError(err)
}

func TestAttestContractGating(t *testing.T) {
	require := require.New(t)

	fx := buildSignedCert(t, true)
	r := fixedKeyResolver{signer: fx.signer, pub: fx.pub, contractOK: false}
	p := newParser(t, fx.cert, r)

	engine := attest.NewEngine(attest.Options{})
	err := engine.Attest(context.Background(), p, 77, true)
	require.ErrorIs(err, attest.ErrContractVerification)
}

func TestAttestBypassDoesNotInvokeContractResolver(t *testing.T) {
	require := require.New(t)

	fx := buildSignedCert(t, true)
	r := fixedKeyResolver{signer: fx.signer, pub: fx.pub, contractFail: attest.ErrGeneral}
	p := newParser(t, fx.cert, r)

	engine := attest.NewEngine(attest.Options{})
	err := engine.Attest(context.Background(), p, 77, false)
	require.NoError(err, "contract resolver must not be consulted when verifyContract is false")
}

func TestAttestIdempotent(t *testing.T) {
	require := require.New(t)

	fx := buildSignedCert(t, true)
	r := fixedKeyResolver{signer: fx.signer, pub: fx.pub, contractOK: true}
	p := newParser(t, fx.cert, r)

	engine := attest.NewEngine(attest.Options{})
	err1 := engine.Attest(context.Background(), p, 77, true)
	len1 := p.AttestedLength()

	err2 := engine.Attest(context.Background(), p, 77, true)
	len2 := p.AttestedLength()

	require.Equal(err1, err2)
	require.Equal(len1, len2)
}

func TestAttestMissingSigningCert(t *testing.T) {
	require := require.New(t)

	fx := buildSignedCert(t, true)
	// Resolver only knows about a different signer.
	r := fixedKeyResolver{signer: uuid.New(), pub: fx.pub}
	p := newParser(t, fx.cert, r)

	engine := attest.NewEngine(attest.Options{})
	err := engine.Attest(context.Background(), p, 77, false)
	require.ErrorIs(err, attest.ErrMissingSigningCert)
}

// TestAttestWithMockResolver exercises the same happy path as
// TestAttestHappyPath but through a gomock-generated resolver.Resolver,
// asserting the arguments and number of resolver calls Attest makes
// (their order is not checked): EntityKey once, Contract once, never Transaction or
// ArtifactState (this certificate carries transaction fields directly,
// so Attest never needs to look either up).
func TestAttestWithMockResolver(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockResolver := resolvermock.NewMockResolver(ctrl)

	fx := buildSignedCert(t, true)

	mockResolver.EXPECT().
		EntityKey(gomock.Any(), gomock.Any(), uint64(77), fx.signer).
		Return(resolver.Keys{PublicSigningKey: fx.pub}, nil)
	mockResolver.EXPECT().
		Contract(gomock.Any(), gomock.Any(), fx.txnType, fx.artifact).
		Return(&resolver.ContractClosure{
			Verify: func(context.Context, any, any) (bool, error) { return true, nil },
		}, nil)

	p, err := parser.NewParser(parser.NewOptions(ed25519suite.New(), mockResolver), fx.cert)
	require.NoError(t, err)

	engine := attest.NewEngine(attest.Options{})
	require.NoError(t, engine.Attest(context.Background(), p, 77, true))
}
