// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package parser presents a read-only cursor over a raw certificate: a
// raw (untrusted) view via field iteration and lookup, and — once
// attest.Engine.Attest succeeds — a trusted, trimmed view of the same
// bytes. The parser never mutates or copies the certificate it is
// given.
package parser

import (
	"errors"
	"fmt"

	"github.com/luxfi/log"

	"github.com/luxfi/cert/field"
	"github.com/luxfi/cert/resolver"
	"github.com/luxfi/cert/suite"
)

var (
	// ErrInitInvalidArg is returned by NewParser when the certificate
	// is nil or empty — an empty certificate is an error at
	// initialization, not silently iterable.
	ErrInitInvalidArg = errors.New("parser: invalid argument")

	// ErrFieldNotFound is returned by FindShort and Find when no
	// matching field remains; callers often treat it as end-of-stream.
	ErrFieldNotFound = errors.New("parser: field not found")

	// ErrFindNextFieldNotFound is returned by FieldNext and FindNext
	// when there is no next field to return.
	ErrFindNextFieldNotFound = errors.New("parser: no further field")
)

// Options configures a Parser: the suite used to verify signatures, the
// resolver used during attestation, an arbitrary caller context handed
// back to resolver calls, and a logger. Suite and Resolver are required
// only for attestation; field iteration and lookup work without them.
type Options struct {
	Suite    suite.Suite
	Resolver resolver.Resolver
	UserCtx  any
	Log      log.Logger
}

// NewOptions returns Options wired with s and r.
func NewOptions(s suite.Suite, r resolver.Resolver) Options {
	return Options{Suite: s, Resolver: r, Log: log.NewNoOpLogger()}
}

// NewSimpleOptions returns Options for parse-only use: resolver.AlwaysFail
// stands in for the resolver, so Attest will fail immediately at
// RESOLVE_KEYS rather than hang waiting on a caller-supplied resolver
// that was never going to answer.
func NewSimpleOptions(s suite.Suite) Options {
	return NewOptions(s, resolver.AlwaysFail{})
}

// Parser is an immutable, borrowed view over a certificate. It is not
// safe for concurrent use while an Attest call is in progress on the
// same instance; concurrent read-only lookups are fine.
type Parser struct {
	opts Options
	cert []byte

	rawLength      int
	attestedLength int

	// parent is the optional chain-attestation scratch pointer. Nothing
	// in this module sets or reads it: the resolver-based attestation
	// design this package implements does not use it, and the ringtail
	// package walks to an embedded certificate with a fresh Parser.
	parent *Parser
}

// NewParser initializes a Parser over cert. cert must be non-empty; the
// parser stores a reference to it, not a copy, and the caller must not
// mutate cert while the Parser is in use.
func NewParser(opts Options, cert []byte) (*Parser, error) {
	if len(cert) == 0 {
		return nil, fmt.Errorf("%w: certificate is nil or empty", ErrInitInvalidArg)
	}
	if opts.Log == nil {
		opts.Log = log.NewNoOpLogger()
	}
	if opts.Resolver == nil {
		opts.Resolver = resolver.AlwaysFail{}
	}

	return &Parser{
		opts:           opts,
		cert:           cert,
		rawLength:      len(cert),
		attestedLength: len(cert),
	}, nil
}

// Options returns the Options the Parser was constructed with.
func (p *Parser) Options() Options {
	return p.opts
}

// Cert returns the full underlying certificate bytes (including
// anything past AttestedLength). Most callers should prefer the
// iteration and lookup methods below, which respect AttestedLength.
func (p *Parser) Cert() []byte {
	return p.cert
}

// RawLength is the length of the certificate as originally given to
// NewParser.
func (p *Parser) RawLength() int {
	return p.rawLength
}

// AttestedLength is RawLength before a successful Attest, or the byte
// offset of the SIGNATURE field header after one.
func (p *Parser) AttestedLength() int {
	return p.attestedLength
}

// ResetAttestedLength restores AttestedLength to RawLength. It is
// exported for the attestation engine's S0 RESET step so repeated
// Attest calls are idempotent; parser callers otherwise
// have no reason to call it directly.
func (p *Parser) ResetAttestedLength() {
	p.attestedLength = p.rawLength
}

// TrimAttestedLength sets AttestedLength to n. It is exported for the
// attestation engine's S5 TRIM step.
func (p *Parser) TrimAttestedLength(n int) {
	p.attestedLength = n
}

// view returns the certificate bytes visible to iteration and lookup:
// cert[0:AttestedLength]. Before a successful Attest this is the full,
// untrusted certificate.
func (p *Parser) view() []byte {
	return p.cert[:p.attestedLength]
}

// FieldFirst returns the first field record in the attested view.
func (p *Parser) FieldFirst() (field.Record, error) {
	rec, err := field.ParseField(p.view(), 0)
	if err != nil {
		return field.Record{}, err
	}
	return rec, nil
}

// FieldNext returns the field record immediately following prev, the
// record most recently returned by FieldFirst or FieldNext. It fails
// with ErrFindNextFieldNotFound when prev was the last field.
func (p *Parser) FieldNext(prev field.Record) (field.Record, error) {
	view := p.view()
	if prev.Next >= len(view) {
		return field.Record{}, fmt.Errorf("%w", ErrFindNextFieldNotFound)
	}

	rec, err := field.ParseField(view, prev.Next)
	if err != nil {
		if errors.Is(err, field.ErrInvalidFieldSize) {
			return field.Record{}, err
		}
		return field.Record{}, fmt.Errorf("%w", ErrFindNextFieldNotFound)
	}
	return rec, nil
}

// FindShort performs a linear scan from the start of the attested view
// and returns the first record whose type is wantedType.
func (p *Parser) FindShort(wantedType uint16) (field.Record, error) {
	view := p.view()
	if len(view) == 0 {
		return field.Record{}, fmt.Errorf("%w", ErrFieldNotFound)
	}

	rec, err := field.ParseField(view, 0)
	if err != nil {
		return field.Record{}, err
	}
	for {
		if rec.Type == wantedType {
			return rec, nil
		}
		if rec.Next >= len(view) {
			return field.Record{}, fmt.Errorf("%w: type 0x%04x", ErrFieldNotFound, wantedType)
		}
		rec, err = field.ParseField(view, rec.Next)
		if err != nil {
			return field.Record{}, err
		}
	}
}

// Find is the 16-byte long-code counterpart of FindShort, reserved for
// long-code field IDs; the current wire format only
// carries 16-bit type codes, so Find reports not-found for any long
// code that has no corresponding short code registered via fieldmap.
func (p *Parser) Find(longCode [16]byte, shortCodeOf func([16]byte) (uint16, bool)) (field.Record, error) {
	shortCode, ok := shortCodeOf(longCode)
	if !ok {
		return field.Record{}, fmt.Errorf("%w: no short code registered for long code %x", ErrFieldNotFound, longCode)
	}
	return p.FindShort(shortCode)
}

// FindNext returns the next occurrence, after current, of a field
// record sharing current's type. It takes that type from current
// itself, without parsing current again, then parses each following
// record exactly once, so no candidate is skipped.
func (p *Parser) FindNext(current field.Record) (field.Record, error) {
	view := p.view()
	wantedType := current.Type
	next := current.Next

	for next < len(view) {
		rec, err := field.ParseField(view, next)
		if err != nil {
			return field.Record{}, err
		}
		if rec.Type == wantedType {
			return rec, nil
		}
		next = rec.Next
	}

	return field.Record{}, fmt.Errorf("%w: no further field of type 0x%04x", ErrFindNextFieldNotFound, wantedType)
}
