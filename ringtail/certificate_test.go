// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ringtail_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/cert/attest"
	"github.com/luxfi/cert/builder"
	"github.com/luxfi/cert/field"
	"github.com/luxfi/cert/parser"
	"github.com/luxfi/cert/resolver"
	"github.com/luxfi/cert/ringtail"
	"github.com/luxfi/cert/suite"
	"github.com/luxfi/cert/suite/blssuite"
	"github.com/luxfi/cert/suite/ed25519suite"
)

// fixedResolver answers EntityKey for exactly one signer, used to
// attest the inner transaction certificate embedded in a bundle.
type fixedResolver struct {
	signer uuid.UUID
	pub    suite.PublicKey
}

func (r fixedResolver) EntityKey(_ context.Context, _ any, _ uint64, id uuid.UUID) (resolver.Keys, error) {
	if id != r.signer {
		return resolver.Keys{}, resolver.ErrNotFound
	}
	return resolver.Keys{PublicSigningKey: r.pub}, nil
}

func (fixedResolver) Transaction(context.Context, any, uuid.UUID, *uuid.UUID) (resolver.Transaction, error) {
	return resolver.Transaction{}, resolver.ErrNotFound
}

func (fixedResolver) ArtifactState(context.Context, any, uuid.UUID) (resolver.ArtifactState, error) {
	return resolver.ArtifactState{}, resolver.ErrNotFound
}

func (fixedResolver) Contract(context.Context, any, uuid.UUID, uuid.UUID) (*resolver.ContractClosure, error) {
	return nil, resolver.ErrNoMapping
}

func buildInnerCert(t *testing.T) ([]byte, uuid.UUID, suite.PublicKey) {
	t.Helper()
	pub, priv, err := ed25519suite.GenerateKey()
	require.NoError(t, err)

	b, err := builder.NewBuilder(builder.NewOptions(ed25519suite.New()), 1024)
	require.NoError(t, err)
	require.NoError(t, b.AddUint32(field.CertificateVersion, 0x00010000))

	signer := uuid.New()
	require.NoError(t, b.Sign(signer, priv))
	return b.Emit(), signer, pub
}

func TestBuildAndVerifyCertBundle(t *testing.T) {
	require := require.New(t)

	innerCert, innerSigner, innerPub := buildInnerCert(t)

	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	committeePriv := suite.PrivateKey(seed)

	var blockHash [32]byte
	for i := range blockHash {
		blockHash[i] = byte(i)
	}

	rtCert := ringtail.Cert(make([]byte, 64))

	bundleSigner := uuid.New()
	bundle, err := ringtail.BuildCertBundle(bundleSigner, committeePriv, 7, 1000, blockHash, innerCert, rtCert)
	require.NoError(err)

	round, err := bundle.Round()
	require.NoError(err)
	require.Equal(uint64(7), round)

	height, err := bundle.Height()
	require.NoError(err)
	require.Equal(uint64(1000), height)

	require.NoError(bundle.CheckRoundHeight(7, 1000))
	require.Error(bundle.CheckRoundHeight(8, 1000))

	aggregatePub, err := blssuite.PublicKeyFromSeed(seed)
	require.NoError(err)

	innerOpts := parser.NewOptions(ed25519suite.New(), fixedResolver{signer: innerSigner, pub: innerPub})
	engine := attest.NewEngine(attest.Options{})

	// The classical (BLS) leg verifies — the bundle was signed with the
	// committee key derived from the same seed — but the post-quantum
	// leg fails because rtCert is not a real ringtail certificate.
	err = bundle.Verify(context.Background(), engine, aggregatePub, []byte("not-a-real-rt-pubkey"), innerOpts)
	require.ErrorIs(err, ringtail.ErrInvalidCertificate)
}

func TestManagerRejectsShareForUnopenedRound(t *testing.T) {
	require := require.New(t)

	validators := stubValidatorSet{threshold: 2, quorum: 2}
	cfg := ringtail.BundleConfig{Threshold: 2, ValidatorCount: 3}
	mgr, err := ringtail.NewManager(ids.NodeID{}, nil, ringtail.Precomp{}, validators, cfg)
	require.NoError(err)

	_, complete, err := mgr.AddShare(1, ringtail.Share{})
	require.Error(err, "adding a share for a round that was never opened by SignRound must fail")
	require.False(complete)
}

func TestNewManagerRejectsMismatchedConfig(t *testing.T) {
	require := require.New(t)

	validators := stubValidatorSet{threshold: 2, quorum: 2}
	cfg := ringtail.BundleConfig{Threshold: 3, ValidatorCount: 3}
	_, err := ringtail.NewManager(ids.NodeID{}, nil, ringtail.Precomp{}, validators, cfg)
	require.ErrorIs(err, ringtail.ErrBadBundleConfig)
}

func TestManagerFinalizerLifecycle(t *testing.T) {
	require := require.New(t)

	validators := stubValidatorSet{threshold: 1, quorum: 1}
	cfg := ringtail.BundleConfig{Threshold: 1, ValidatorCount: 1, DelayAfterClassical: 0}
	mgr, err := ringtail.NewManager(ids.NodeID{}, nil, ringtail.Precomp{}, validators, cfg)
	require.NoError(err)

	_, ok := mgr.CertBundle(5)
	require.False(ok)
	require.False(mgr.IsQuantumFinal(5))

	mgr.OnClassicalFinality(5, ids.ID{})
	require.True(mgr.ReadyForQuantumRound(5, time.Now()))

	mgr.SetCertBundle(5, []byte("wire"))
	wire, ok := mgr.CertBundle(5)
	require.True(ok)
	require.Equal([]byte("wire"), wire)
}

type stubValidatorSet struct {
	threshold int
	quorum    int
}

func (s stubValidatorSet) GetValidator(id ids.NodeID) (*ringtail.Validator, error) {
	return nil, ringtail.ErrInvalidCertificate
}

func (s stubValidatorSet) GetQuorum() int { return s.quorum }

func (s stubValidatorSet) GetThreshold() int { return s.threshold }
