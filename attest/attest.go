// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package attest implements the attestation engine: the single
// non-trivial state machine that ties certificate parsing to
// cryptographic signature verification and, optionally, a
// domain-specific contract check.
package attest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/cert/field"
	"github.com/luxfi/cert/parser"
)

var (
	// ErrMissingSignerUUID is S1's failure: no well-formed SIGNER_ID
	// field.
	ErrMissingSignerUUID = errors.New("attest: missing or malformed signer id")

	// ErrMissingSignature is S2's failure: no well-formed SIGNATURE
	// field.
	ErrMissingSignature = errors.New("attest: missing or malformed signature")

	// ErrMissingSigningCert is S3's failure: the entity-key resolver
	// returned resolver.ErrNotFound.
	ErrMissingSigningCert = errors.New("attest: signing certificate not found for signer")

	// ErrSignatureMismatch is S4's failure: the signature does not
	// verify. A hard authentication failure.
	ErrSignatureMismatch = errors.New("attest: signature mismatch")

	// ErrMissingTransactionType is S7's failure.
	ErrMissingTransactionType = errors.New("attest: missing or malformed transaction type")

	// ErrMissingArtifactID is S8's failure.
	ErrMissingArtifactID = errors.New("attest: missing or malformed artifact id")

	// ErrMissingContract is S9's failure: the contract resolver
	// returned resolver.ErrNoMapping.
	ErrMissingContract = errors.New("attest: no contract registered for transaction type and artifact")

	// ErrContractVerification is S10's failure: the contract closure
	// rejected the certificate.
	ErrContractVerification = errors.New("attest: contract verification failed")

	// ErrGeneral covers failures outside the named states: a parser
	// with no crypto suite configured, or a contract closure that
	// returns an error.
	ErrGeneral = errors.New("attest: general attestation failure")
)

// Options configures an Engine. Log defaults to a no-op logger and
// Registry defaults to a disconnected registry if left nil, the same
// constructor-injection style a NewMetrics(reg prometheus.Registerer)
// constructor uses.
type Options struct {
	Log      log.Logger
	Registry prometheus.Registerer
}

// Engine runs the certificate attestation state machine. It holds
// no per-certificate state itself; all mutable state (attested length)
// lives on the parser.Parser passed to Attest, so a single Engine can
// attest many certificates, sequentially or from many goroutines, as
// long as no two calls share a Parser.
type Engine struct {
	log      log.Logger
	outcomes *prometheus.CounterVec
}

// NewEngine constructs an Engine, registering its metrics against
// opts.Registry (a no-op registry is substituted if nil).
func NewEngine(opts Options) *Engine {
	if opts.Log == nil {
		opts.Log = log.NewNoOpLogger()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cert_attest_outcomes_total",
		Help: "Count of attest.Engine.Attest calls by terminal state.",
	}, []string{"state"})
	_ = registry.Register(outcomes)

	return &Engine{log: opts.Log, outcomes: outcomes}
}

func (e *Engine) record(state string) {
	e.outcomes.WithLabelValues(state).Inc()
}

// Attest runs the twelve-state attestation machine against p. On
// success p.AttestedLength reports the trimmed, trusted length (the
// byte offset of the SIGNATURE field's header); on failure p's
// attested length is its raw length (S0 resets it, and a failure after
// S5 TRIM restores it), so a caller inspecting p after a failed Attest
// sees the untrusted view.
//
// Calling Attest twice on the same Parser with the same resolver
// answers is idempotent: S0 always restores AttestedLength from
// RawLength first.
func (e *Engine) Attest(ctx context.Context, p *parser.Parser, blockHeight uint64, verifyContract bool) (err error) {
	// S0 RESET
	p.ResetAttestedLength()
	defer func() {
		if err != nil {
			p.ResetAttestedLength()
		}
	}()

	opts := p.Options()
	if opts.Suite == nil {
		e.record("general")
		return fmt.Errorf("%w: parser has no crypto suite configured", ErrGeneral)
	}

	// S1 LOCATE_SIGNER
	signerRec, err := p.FindShort(field.SignerID)
	if err != nil || len(signerRec.Value) != field.UUIDFieldSize {
		e.log.Warn("attest: missing signer id", "error", err)
		e.record("missing_signer_uuid")
		return fmt.Errorf("%w", ErrMissingSignerUUID)
	}
	signerID, err := uuid.FromBytes(signerRec.Value)
	if err != nil {
		e.record("missing_signer_uuid")
		return fmt.Errorf("%w: %v", ErrMissingSignerUUID, err)
	}

	// S2 LOCATE_SIGNATURE
	sigSize := opts.Suite.SignatureSize()
	sigRec, err := p.FindShort(field.Signature)
	if err != nil || len(sigRec.Value) != sigSize {
		e.log.Warn("attest: missing signature", "error", err)
		e.record("missing_signature")
		return fmt.Errorf("%w", ErrMissingSignature)
	}

	sigValueOffset := sigRec.Next - len(sigRec.Value)
	sigHeaderOffset := sigValueOffset - field.HeaderSize

	// S3 RESOLVE_KEYS
	keys, err := opts.Resolver.EntityKey(ctx, p, blockHeight, signerID)
	if err != nil {
		e.log.Warn("attest: entity key resolution failed", "signer", signerID.String(), "error", err)
		e.record("missing_signing_cert")
		return fmt.Errorf("%w: %v", ErrMissingSigningCert, err)
	}

	// S4 VERIFY_SIGNATURE — the signed message is cert[0:sigValueOffset],
	// i.e. everything up to but not including the SIGNATURE field's
	// value (its header is covered).
	message := p.Cert()[:sigValueOffset]
	if err := opts.Suite.Verify(keys.PublicSigningKey, message, sigRec.Value); err != nil {
		e.log.Warn("attest: signature verification failed", "signer", signerID.String(), "error", err)
		e.record("signature_mismatch")
		return fmt.Errorf("%w", ErrSignatureMismatch)
	}

	// S5 TRIM
	p.TrimAttestedLength(sigHeaderOffset)

	// S6
	if !verifyContract {
		e.record("success")
		return nil
	}

	// S7 LOCATE_TXN_TYPE
	txnTypeRec, err := p.FindShort(field.TransactionType)
	if err != nil || len(txnTypeRec.Value) != field.UUIDFieldSize {
		e.record("missing_transaction_type")
		return fmt.Errorf("%w", ErrMissingTransactionType)
	}
	txnType, err := uuid.FromBytes(txnTypeRec.Value)
	if err != nil {
		e.record("missing_transaction_type")
		return fmt.Errorf("%w: %v", ErrMissingTransactionType, err)
	}

	// S8 LOCATE_ARTIFACT
	artifactRec, err := p.FindShort(field.ArtifactID)
	if err != nil || len(artifactRec.Value) != field.UUIDFieldSize {
		e.record("missing_artifact_id")
		return fmt.Errorf("%w", ErrMissingArtifactID)
	}
	artifactID, err := uuid.FromBytes(artifactRec.Value)
	if err != nil {
		e.record("missing_artifact_id")
		return fmt.Errorf("%w: %v", ErrMissingArtifactID, err)
	}

	// S9 RESOLVE_CONTRACT
	closure, err := opts.Resolver.Contract(ctx, p, txnType, artifactID)
	if err != nil || closure == nil {
		e.log.Warn("attest: contract resolution failed", "txnType", txnType.String(), "artifact", artifactID.String(), "error", err)
		e.record("missing_contract")
		return fmt.Errorf("%w", ErrMissingContract)
	}

	// S10 RUN_CONTRACT
	ok, err := closure.Verify(ctx, p, closure.Context)
	if err != nil {
		e.record("general")
		return fmt.Errorf("%w: contract closure error: %v", ErrGeneral, err)
	}
	if !ok {
		e.record("contract_verification")
		return fmt.Errorf("%w", ErrContractVerification)
	}

	// S11 SUCCESS
	e.record("success")
	return nil
}
