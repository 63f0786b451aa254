// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ringtail

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	rt "github.com/luxfi/crypto/ringtail"
	"github.com/luxfi/ids"
	"github.com/luxfi/ringtail/threshold"
)

const (
	// KeyFilename is the default filename a single-validator ringtail
	// key pair is persisted under.
	KeyFilename = "rt.key"
)

var (
	// ErrKeyNotFound is returned when a key file does not exist.
	ErrKeyNotFound = errors.New("ringtail: key not found")
)

// KeyPair is a single validator's ringtail key pair, plus the node
// identity derived from its public key.
type KeyPair struct {
	PrivateKey []byte
	PublicKey  []byte
	NodeID     ids.NodeID
}

// nodeIDFromPublicKey derives a deterministic 20-byte node id from a
// ringtail public key the same way the node derives ids.NodeID from
// other key material: hash, then truncate.
func nodeIDFromPublicKey(pub []byte) ids.NodeID {
	hash := sha256.Sum256(pub)
	var nodeID ids.NodeID
	copy(nodeID[:], hash[:20])
	return nodeID
}

// GenerateKeyPair derives a ringtail key pair from seed.
func GenerateKeyPair(seed []byte) (*KeyPair, error) {
	priv, pub, err := rt.KeyGen(seed)
	if err != nil {
		return nil, fmt.Errorf("ringtail: key generation failed: %w", err)
	}
	return &KeyPair{
		PrivateKey: priv,
		PublicKey:  pub,
		NodeID:     nodeIDFromPublicKey(pub),
	}, nil
}

// SaveKeyPair writes kp's private and public keys to dir.
func SaveKeyPair(kp *KeyPair, dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("ringtail: creating key directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, KeyFilename), kp.PrivateKey, 0600); err != nil {
		return fmt.Errorf("ringtail: saving private key: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, KeyFilename+".pub"), kp.PublicKey, 0644); err != nil {
		return fmt.Errorf("ringtail: saving public key: %w", err)
	}
	return nil
}

// LoadKeyPair reads a key pair previously written by SaveKeyPair.
func LoadKeyPair(dir string) (*KeyPair, error) {
	priv, err := os.ReadFile(filepath.Join(dir, KeyFilename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("ringtail: loading private key: %w", err)
	}
	pub, err := os.ReadFile(filepath.Join(dir, KeyFilename+".pub"))
	if err != nil {
		return nil, fmt.Errorf("ringtail: loading public key: %w", err)
	}
	return &KeyPair{PrivateKey: priv, PublicKey: pub, NodeID: nodeIDFromPublicKey(pub)}, nil
}

// GetOrCreateKeyPair loads dir's key pair, generating and persisting a
// fresh one from seed if none exists yet.
func GetOrCreateKeyPair(dir string, seed []byte) (*KeyPair, error) {
	kp, err := LoadKeyPair(dir)
	if err == nil {
		return kp, nil
	}
	if !errors.Is(err, ErrKeyNotFound) {
		return nil, err
	}
	kp, err = GenerateKeyPair(seed)
	if err != nil {
		return nil, err
	}
	if err := SaveKeyPair(kp, dir); err != nil {
		return nil, err
	}
	return kp, nil
}

// KeyManager indexes key pairs by node id for a multi-validator
// process (a test harness or a simulator driving several validators).
type KeyManager struct {
	keys map[ids.NodeID]*KeyPair
}

// NewKeyManager returns an empty KeyManager.
func NewKeyManager() *KeyManager {
	return &KeyManager{keys: make(map[ids.NodeID]*KeyPair)}
}

// AddKey registers kp under its own node id.
func (km *KeyManager) AddKey(kp *KeyPair) {
	km.keys[kp.NodeID] = kp
}

// GetKey looks up a key pair by node id.
func (km *KeyManager) GetKey(nodeID ids.NodeID) (*KeyPair, bool) {
	kp, ok := km.keys[nodeID]
	return kp, ok
}

// GetPublicKey looks up just the public key half.
func (km *KeyManager) GetPublicKey(nodeID ids.NodeID) ([]byte, bool) {
	kp, ok := km.keys[nodeID]
	if !ok {
		return nil, false
	}
	return kp.PublicKey, true
}

// ListNodeIDs returns every node id the manager holds a key for.
func (km *KeyManager) ListNodeIDs() []ids.NodeID {
	nodeIDs := make([]ids.NodeID, 0, len(km.keys))
	for nodeID := range km.keys {
		nodeIDs = append(nodeIDs, nodeID)
	}
	return nodeIDs
}

// ExportPublicKey renders a public key as hex, for config files and logs.
func ExportPublicKey(pubKey []byte) string {
	return hex.EncodeToString(pubKey)
}

// ImportPublicKey parses a public key previously rendered by ExportPublicKey.
func ImportPublicKey(hexKey string) ([]byte, error) {
	pubKey, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("ringtail: invalid hex key: %w", err)
	}
	return pubKey, nil
}

// ThresholdShare, ThresholdGroupKey and ThresholdSigner alias the
// t-of-n primitives github.com/luxfi/ringtail/threshold provides, the
// same forwarding pattern this package uses for
// github.com/luxfi/crypto/ringtail's Precomp/Share/Cert in ringtail.go.
type (
	ThresholdShare    = *threshold.KeyShare
	ThresholdGroupKey = *threshold.GroupKey
	ThresholdSigner   = threshold.Signer
)

// GenerateThresholdKeys runs the t-of-n distributed key generation for
// a committee of n members with threshold t, returning one share per
// member plus the committee's group public key.
func GenerateThresholdKeys(t, n int) ([]ThresholdShare, ThresholdGroupKey, error) {
	shares, groupKey, err := threshold.GenerateKeys(t, n, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("ringtail: threshold key generation failed: %w", err)
	}
	return shares, groupKey, nil
}

// NewThresholdSigner wraps one committee member's share in a signer
// that can participate in a Round1/Round2/Finalize signing session.
func NewThresholdSigner(share ThresholdShare) *ThresholdSigner {
	return threshold.NewSigner(share)
}
