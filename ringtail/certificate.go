// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ringtail

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/luxfi/ids"

	"github.com/luxfi/cert/attest"
	"github.com/luxfi/cert/builder"
	"github.com/luxfi/cert/parser"
	"github.com/luxfi/cert/resolver"
	"github.com/luxfi/cert/suite"
	"github.com/luxfi/cert/suite/blssuite"
)

// Bundle field codes live here, not in field's well-known range: they
// are specific to the dual-certificate finality bundle this package
// builds, not to the generic certificate wire format.
const (
	fieldRound     uint16 = 0x2001
	fieldHeight    uint16 = 0x2002
	fieldBlockHash uint16 = 0x2003
	fieldInnerCert uint16 = 0x2004
	fieldRTCert    uint16 = 0x2005

	blockHashSize = 32
)

var (
	// ErrInvalidCertificate is returned when a bundle is malformed or
	// fails either its classical or post-quantum verification leg.
	ErrInvalidCertificate = errors.New("ringtail: invalid certificate bundle")

	// ErrCertificateMismatch is returned when a bundle's embedded round
	// or height does not match the caller's expectation.
	ErrCertificateMismatch = errors.New("ringtail: certificate mismatch")

	// ErrBadBundleConfig is returned when a BundleConfig disagrees with
	// the committee it is paired with at Manager construction time.
	ErrBadBundleConfig = errors.New("ringtail: bundle config does not match validator set")
)

// CertBundle is a finality certificate for one consensus round: a
// round, height, block hash, a recursively attested inner certificate,
// and a post-quantum ringtail certificate over the block hash, all
// wrapped in a certificate of their own and classically signed via
// blssuite (SIGNER_ID/SIGNATURE). Verifying a bundle verifies the BLS
// leg through attest.Engine, the post-quantum leg against Verify, and
// recursively attests the inner certificate through a second,
// independent parser.Parser/attest.Engine pass.
type CertBundle struct {
	Wire []byte
}

// BuildCertBundle assembles and BLS-signs a new bundle. rtCert is an
// already-aggregated post-quantum certificate over blockHash (see
// Aggregate); innerCert is a fully built, independently attestable
// certificate — BuildCertBundle embeds it verbatim without attesting
// or otherwise inspecting it.
func BuildCertBundle(signer uuid.UUID, priv suite.PrivateKey, round, height uint64, blockHash [blockHashSize]byte, innerCert []byte, rtCert Cert) (*CertBundle, error) {
	maxSize := 256 + len(innerCert) + len(rtCert)
	b, err := builder.NewBuilder(builder.NewOptions(blssuite.New()), maxSize)
	if err != nil {
		return nil, fmt.Errorf("ringtail: allocating bundle builder: %w", err)
	}

	if err := b.AddUint64(fieldRound, round); err != nil {
		return nil, fmt.Errorf("ringtail: writing round: %w", err)
	}
	if err := b.AddUint64(fieldHeight, height); err != nil {
		return nil, fmt.Errorf("ringtail: writing height: %w", err)
	}
	if err := b.AddBuffer(fieldBlockHash, blockHash[:]); err != nil {
		return nil, fmt.Errorf("ringtail: writing block hash: %w", err)
	}
	if err := b.AddBuffer(fieldInnerCert, innerCert); err != nil {
		return nil, fmt.Errorf("ringtail: embedding inner certificate: %w", err)
	}
	if err := b.AddBuffer(fieldRTCert, []byte(rtCert)); err != nil {
		return nil, fmt.Errorf("ringtail: embedding post-quantum certificate: %w", err)
	}
	if err := b.Sign(signer, priv); err != nil {
		return nil, fmt.Errorf("ringtail: signing bundle: %w", err)
	}

	return &CertBundle{Wire: b.Emit()}, nil
}

// CommitteeResolver adapts a single resolved BLS public key into a
// resolver.Resolver usable by attest.Engine: a CertBundle's SIGNER_ID
// names the round's committee, not one validator, so EntityKey ignores
// the requested id and always answers with the committee's aggregate
// key. The other three resolver methods are intentionally
// unimplemented: a finality bundle carries no transaction, artifact or
// contract of its own.
type CommitteeResolver struct {
	AggregatePublicKey suite.PublicKey
}

func (r CommitteeResolver) EntityKey(context.Context, any, uint64, uuid.UUID) (resolver.Keys, error) {
	return resolver.Keys{PublicSigningKey: r.AggregatePublicKey}, nil
}

func (CommitteeResolver) Transaction(context.Context, any, uuid.UUID, *uuid.UUID) (resolver.Transaction, error) {
	return resolver.Transaction{}, resolver.ErrNotFound
}

func (CommitteeResolver) ArtifactState(context.Context, any, uuid.UUID) (resolver.ArtifactState, error) {
	return resolver.ArtifactState{}, resolver.ErrNotFound
}

func (CommitteeResolver) Contract(context.Context, any, uuid.UUID, uuid.UUID) (*resolver.ContractClosure, error) {
	return nil, resolver.ErrNoMapping
}

func (cb *CertBundle) rawParser() (*parser.Parser, error) {
	return parser.NewParser(parser.NewSimpleOptions(blssuite.New()), cb.Wire)
}

// Round returns the bundle's round field without verifying anything.
func (cb *CertBundle) Round() (uint64, error) {
	p, err := cb.rawParser()
	if err != nil {
		return 0, err
	}
	rec, err := p.FindShort(fieldRound)
	if err != nil || len(rec.Value) != 8 {
		return 0, fmt.Errorf("%w: missing or malformed round", ErrInvalidCertificate)
	}
	return binary.BigEndian.Uint64(rec.Value), nil
}

// Height returns the bundle's height field without verifying anything.
func (cb *CertBundle) Height() (uint64, error) {
	p, err := cb.rawParser()
	if err != nil {
		return 0, err
	}
	rec, err := p.FindShort(fieldHeight)
	if err != nil || len(rec.Value) != 8 {
		return 0, fmt.Errorf("%w: missing or malformed height", ErrInvalidCertificate)
	}
	return binary.BigEndian.Uint64(rec.Value), nil
}

// Verify attests the bundle's BLS leg through engine, checks the
// post-quantum leg against rtPub, and recursively attests the embedded
// inner certificate through a fresh parser built from innerOpts — the
// chain-walking shape a finality certificate needs, built entirely out
// of the single-certificate core.
func (cb *CertBundle) Verify(ctx context.Context, engine *attest.Engine, aggregatePub suite.PublicKey, rtPub []byte, innerOpts parser.Options) error {
	p, err := parser.NewParser(parser.NewOptions(blssuite.New(), CommitteeResolver{AggregatePublicKey: aggregatePub}), cb.Wire)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCertificate, err)
	}
	if err := engine.Attest(ctx, p, 0, false); err != nil {
		return fmt.Errorf("ringtail: classical leg failed: %w", err)
	}

	blockHashRec, err := p.FindShort(fieldBlockHash)
	if err != nil || len(blockHashRec.Value) != blockHashSize {
		return fmt.Errorf("%w: missing or malformed block hash", ErrInvalidCertificate)
	}
	rtCertRec, err := p.FindShort(fieldRTCert)
	if err != nil || len(rtCertRec.Value) == 0 {
		return fmt.Errorf("%w: missing post-quantum certificate", ErrInvalidCertificate)
	}
	if !Verify(rtPub, blockHashRec.Value, rtCertRec.Value) {
		return fmt.Errorf("%w: post-quantum leg failed", ErrInvalidCertificate)
	}

	innerRec, err := p.FindShort(fieldInnerCert)
	if err != nil || len(innerRec.Value) == 0 {
		return fmt.Errorf("%w: missing inner certificate", ErrInvalidCertificate)
	}
	innerParser, err := parser.NewParser(innerOpts, innerRec.Value)
	if err != nil {
		return fmt.Errorf("%w: inner certificate: %v", ErrInvalidCertificate, err)
	}
	if err := engine.Attest(ctx, innerParser, 0, true); err != nil {
		return fmt.Errorf("ringtail: inner certificate attestation failed: %w", err)
	}

	return nil
}

// CheckRoundHeight confirms the bundle's embedded round and height
// match what the caller expected to receive — a defense against a
// bundle being replayed under the wrong round after a reorg.
func (cb *CertBundle) CheckRoundHeight(wantRound, wantHeight uint64) error {
	round, err := cb.Round()
	if err != nil {
		return err
	}
	height, err := cb.Height()
	if err != nil {
		return err
	}
	if round != wantRound || height != wantHeight {
		return fmt.Errorf("%w: got round %d height %d, want round %d height %d", ErrCertificateMismatch, round, height, wantRound, wantHeight)
	}
	return nil
}

// roundState tracks the post-quantum shares collected so far for one
// round, pending aggregation once the committee's threshold is met.
type roundState struct {
	blockHash [blockHashSize]byte
	shares    []Share
}

// finalizedHeight tracks one height's progress toward the two
// finality lines a bundle reports separately: classical (BLS) and
// post-quantum (ringtail).
type finalizedHeight struct {
	classicalAt time.Time
	blockHash   ids.ID
	bundle      []byte
	quantumDone bool
}

// Manager orchestrates per-round bundle assembly on one committee
// member: producing this validator's own BLS signature and ringtail
// share for a round, folding in the shares other members broadcast
// until there are enough to aggregate a post-quantum certificate, and
// tracking classical/post-quantum finality per height so it can serve
// as a Finalizer.
type Manager struct {
	mu sync.Mutex

	nodeID     ids.NodeID
	blsPriv    suite.PrivateKey
	rtPrecomp  Precomp
	validators ValidatorSet
	cfg        BundleConfig
	pending    map[uint64]*roundState
	finalized  map[uint64]*finalizedHeight
}

// NewManager constructs a Manager for one committee member. cfg's
// Threshold and ValidatorCount must agree with validators, since a
// Manager built against the wrong committee size would silently wait
// forever (or finalize early) on every round.
func NewManager(nodeID ids.NodeID, blsPriv suite.PrivateKey, rtPrecomp Precomp, validators ValidatorSet, cfg BundleConfig) (*Manager, error) {
	if cfg.Threshold != validators.GetThreshold() || cfg.ValidatorCount < validators.GetQuorum() {
		return nil, fmt.Errorf("%w: threshold %d/%d, quorum %d", ErrBadBundleConfig, cfg.Threshold, cfg.ValidatorCount, validators.GetQuorum())
	}
	return &Manager{
		nodeID:     nodeID,
		blsPriv:    blsPriv,
		rtPrecomp:  rtPrecomp,
		validators: validators,
		cfg:        cfg,
		pending:    make(map[uint64]*roundState),
		finalized:  make(map[uint64]*finalizedHeight),
	}, nil
}

// SignRound produces this validator's BLS signature and ringtail
// share over blockHash for round, and opens round for incoming shares
// from the rest of the committee.
func (m *Manager) SignRound(round uint64, blockHash [blockHashSize]byte) (suite.Signature, Share, error) {
	blsSig, err := blssuite.New().Sign(m.blsPriv, blockHash[:])
	if err != nil {
		return nil, Share{}, fmt.Errorf("ringtail: signing round %d: %w", round, err)
	}
	rtShare, err := QuickSign(m.rtPrecomp, blockHash[:])
	if err != nil {
		return nil, Share{}, fmt.Errorf("ringtail: quick-signing round %d: %w", round, err)
	}

	m.mu.Lock()
	m.pending[round] = &roundState{blockHash: blockHash}
	m.mu.Unlock()

	return blsSig, rtShare, nil
}

// AddShare records a committee member's ringtail share for round,
// returning the aggregated certificate once the validator set's
// threshold has been met.
func (m *Manager) AddShare(round uint64, share Share) (Cert, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.pending[round]
	if !ok {
		return nil, false, fmt.Errorf("ringtail: no pending round %d", round)
	}
	state.shares = append(state.shares, share)
	if len(state.shares) < m.validators.GetThreshold() {
		return nil, false, nil
	}

	cert, err := Aggregate(state.shares)
	if err != nil {
		return nil, false, fmt.Errorf("ringtail: aggregating round %d: %w", round, err)
	}
	delete(m.pending, round)

	fh, ok := m.finalized[round]
	if !ok {
		fh = &finalizedHeight{}
		m.finalized[round] = fh
	}
	fh.quantumDone = true

	return cert, true, nil
}

// OnClassicalFinality records that height's BLS signature set has
// reached quorum, opening its post-quantum round for
// ReadyForQuantumRound.
func (m *Manager) OnClassicalFinality(height uint64, blockHash ids.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fh, ok := m.finalized[height]
	if !ok {
		fh = &finalizedHeight{}
		m.finalized[height] = fh
	}
	fh.classicalAt = time.Now()
	fh.blockHash = blockHash
}

// SetCertBundle records the assembled wire bundle for height, once a
// caller has combined this Manager's classical and post-quantum
// finality signals into a CertBundle via BuildCertBundle.
func (m *Manager) SetCertBundle(height uint64, wire []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fh, ok := m.finalized[height]
	if !ok {
		fh = &finalizedHeight{}
		m.finalized[height] = fh
	}
	fh.bundle = wire
}

// CertBundle returns the finality bundle for height, if one has been
// assembled yet.
func (m *Manager) CertBundle(height uint64) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fh, ok := m.finalized[height]
	if !ok || fh.bundle == nil {
		return nil, false
	}
	return fh.bundle, true
}

// IsQuantumFinal reports whether height's bundle has an aggregated
// post-quantum certificate, not just a classical one.
func (m *Manager) IsQuantumFinal(height uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	fh, ok := m.finalized[height]
	return ok && fh.quantumDone
}

// ReadyForQuantumRound reports whether height has crossed classical
// finality and cfg.DelayAfterClassical has since elapsed, the
// condition a caller gates SignRound's post-quantum leg on so
// stragglers get a chance to catch up without blocking classical
// finality on them.
func (m *Manager) ReadyForQuantumRound(height uint64, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	fh, ok := m.finalized[height]
	if !ok || fh.classicalAt.IsZero() {
		return false
	}
	return now.Sub(fh.classicalAt) >= m.cfg.DelayAfterClassical
}

var _ Finalizer = (*Manager)(nil)
