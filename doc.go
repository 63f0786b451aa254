// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cert is the entry point for the certificate core: a binary
// certificate format with strongly-typed fields, cryptographic
// signing, and a recursive attestation protocol.
//
// Building a certificate starts with builder.NewBuilder; reading one
// back, whether trusted or not, starts with parser.NewParser. Turning
// a raw, untrusted parse into a trusted one is attest.Engine.Attest,
// driven by the four caller-supplied callbacks in resolver.Resolver
// and a pluggable signature algorithm in suite.Suite.
//
// This package itself holds no logic: it exists so a caller who only
// needs the common path can import one package instead of five.
package cert

import (
	"github.com/luxfi/cert/attest"
	"github.com/luxfi/cert/builder"
	"github.com/luxfi/cert/parser"
	"github.com/luxfi/cert/resolver"
	"github.com/luxfi/cert/suite"
)

// NewBuilder is builder.NewBuilder.
func NewBuilder(opts builder.Options, maxSize int) (*builder.Builder, error) {
	return builder.NewBuilder(opts, maxSize)
}

// NewBuilderOptions is builder.NewOptions.
func NewBuilderOptions(s suite.Suite) builder.Options {
	return builder.NewOptions(s)
}

// NewParser is parser.NewParser.
func NewParser(opts parser.Options, cert []byte) (*parser.Parser, error) {
	return parser.NewParser(opts, cert)
}

// NewParserOptions is parser.NewOptions.
func NewParserOptions(s suite.Suite, r resolver.Resolver) parser.Options {
	return parser.NewOptions(s, r)
}

// NewSimpleParserOptions is parser.NewSimpleOptions, for callers that
// only parse and never attest.
func NewSimpleParserOptions(s suite.Suite) parser.Options {
	return parser.NewSimpleOptions(s)
}

// NewAttestEngine is attest.NewEngine.
func NewAttestEngine(opts attest.Options) *attest.Engine {
	return attest.NewEngine(opts)
}
