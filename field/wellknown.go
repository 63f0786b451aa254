// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package field

// Well-known short codes reserved by the certificate core. Numeric
// assignments are data, not design: they only need to be stable and
// collision-free within a deployment. Application-defined fields must
// avoid this range.
const (
	CertificateVersion     uint16 = 0x0001
	CertificateValidFrom   uint16 = 0x0002
	CertificateCryptoSuite uint16 = 0x0003
	CertificateType        uint16 = 0x0004
	CertificateID          uint16 = 0x0005
	PreviousCertificateID  uint16 = 0x0006
	TransactionType        uint16 = 0x0007
	ArtifactType           uint16 = 0x0008
	ArtifactID             uint16 = 0x0009
	PreviousArtifactState  uint16 = 0x000A
	NewArtifactState       uint16 = 0x000B
	SignerID               uint16 = 0x000C
	Signature              uint16 = 0x000D
	PublicSigningKey       uint16 = 0x000E
)

// UUIDFieldSize is the size in bytes of every well-known UUID-valued
// field (SignerID, CertificateID, ArtifactID, TransactionType, ...).
const UUIDFieldSize = 16
