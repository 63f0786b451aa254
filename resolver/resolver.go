// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package resolver declares the four capabilities the attestation
// engine needs from its caller: resolving an entity's signing keys,
// resolving transaction certificates and artifact state, and resolving
// a contract closure. The core only ever calls these; it never
// implements them, mirroring how a ValidatorState or AliasLookup
// interface is declared, and left to be implemented by the embedding
// node, by a consensus engine's own external dependencies.
package resolver

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/luxfi/cert/suite"
)

// ErrNotFound is returned by EntityKey, Transaction and ArtifactState
// when the resolver has no answer for the request — attestation cannot
// proceed, but this is a caller-data condition, not a malformed
// certificate.
var ErrNotFound = errors.New("resolver: not found")

// ErrNoMapping is returned by Contract when no contract closure is
// registered for a transaction-type/artifact pair. It is the "no
// mapping" half of the two-variant sum used in place
// of a typed-null return.
var ErrNoMapping = errors.New("resolver: no contract mapping")

// Keys is the signing and encryption public key pair in force for an
// entity at a given block height.
type Keys struct {
	PublicEncryptionKey suite.PublicKey
	PublicSigningKey    suite.PublicKey
}

// Transaction is a certificate produced for an artifact, together with
// whether the resolver is vouching for it as already attested.
type Transaction struct {
	// CertBytes is the raw (or, if Trusted, previously attested)
	// transaction certificate.
	CertBytes []byte
	// Trusted must only be set when CertBytes has already been
	// through a successful attest.Engine.Attest call; a resolver that
	// sets it for an unverified certificate breaks the engine's
	// signature-before-contract ordering guarantee.
	Trusted bool
}

// ArtifactState is the last known lifecycle state of an artifact.
type ArtifactState struct {
	// State is the artifact's recorded state, or -1 if unknown.
	State int32
	// TransactionID, if present, is the transaction that produced
	// State.
	TransactionID *uuid.UUID
}

// Verifier is the predicate a ContractClosure wraps: it receives the
// parser-shaped view the core passes it (an *parser.Parser, typed as
// `any` here to avoid an import cycle between resolver and parser) and
// the closure's own context, and reports pass/fail.
type Verifier func(ctx context.Context, parserView any, closureCtx any) (bool, error)

// ContractClosure pairs a Verifier with the context it closes over.
// Resolver.Contract returns one of these on success.
type ContractClosure struct {
	Verify  Verifier
	Context any
}

// Resolver is the set of caller-supplied capabilities the attestation
// engine invokes. Implementations may perform I/O, block, or be pure;
// the core makes no timing guarantees around these calls and holds no
// locks across them. Implementations must be re-entrant
// with respect to the parser: a Contract closure may itself construct
// a new parser.Parser over a different certificate.
type Resolver interface {
	// EntityKey returns the signing/encryption keys in force for
	// entityID at blockHeight. parserView is the *parser.Parser
	// attesting the certificate that named entityID as its signer.
	EntityKey(ctx context.Context, parserView any, blockHeight uint64, entityID uuid.UUID) (Keys, error)

	// Transaction returns the latest transaction certificate for
	// artifactID, or the one named by txnID when txnID is non-nil.
	Transaction(ctx context.Context, parserView any, artifactID uuid.UUID, txnID *uuid.UUID) (Transaction, error)

	// ArtifactState returns the last recorded state of artifactID.
	ArtifactState(ctx context.Context, parserView any, artifactID uuid.UUID) (ArtifactState, error)

	// Contract returns the closure that verifies transactions of
	// txnType against artifactID, or ErrNoMapping if none is
	// registered.
	Contract(ctx context.Context, parserView any, txnType uuid.UUID, artifactID uuid.UUID) (*ContractClosure, error)
}

// AlwaysFail is the default Resolver for parse-only use, mirroring
// vccert_parser_options_simple_init: every capability fails immediately
// so a caller that only wants to walk fields (never attest) is not
// forced to implement the full interface.
type AlwaysFail struct{}

var _ Resolver = AlwaysFail{}

// EntityKey implements Resolver.
func (AlwaysFail) EntityKey(context.Context, any, uint64, uuid.UUID) (Keys, error) {
	return Keys{}, ErrNotFound
}

// Transaction implements Resolver.
func (AlwaysFail) Transaction(context.Context, any, uuid.UUID, *uuid.UUID) (Transaction, error) {
	return Transaction{}, ErrNotFound
}

// ArtifactState implements Resolver.
func (AlwaysFail) ArtifactState(context.Context, any, uuid.UUID) (ArtifactState, error) {
	return ArtifactState{State: -1}, ErrNotFound
}

// Contract implements Resolver.
func (AlwaysFail) Contract(context.Context, any, uuid.UUID, uuid.UUID) (*ContractClosure, error) {
	return nil, ErrNoMapping
}
