/*
Package crypto provides the ed25519 keys used to derive caller
identities. Callers are authenticated outside of this module, but
tests and the command line tool need real keys to produce the
conditions that owners and signers are compared against.
*/
package crypto

import (
	"github.com/lockstep-io/lockstep"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the conditions we derive from public keys.
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() PublicKey
}

// PublicKey wraps an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte
}

// Verify verifies the signature was created with this message and
// public key.
func (p PublicKey) Verify(message, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig)
}

// Condition encodes the public key into a caller identity.
func (p PublicKey) Condition() lockstep.Condition {
	return lockstep.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address is a shortcut for Condition().Address().
func (p PublicKey) Address() lockstep.Address {
	return p.Condition().Address()
}

// PrivateKey wraps an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key.
func (p *PrivateKey) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message), nil
}

// PublicKey returns the corresponding PublicKey.
func (p *PrivateKey) PublicKey() PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 returns a random new private key.
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key
// from a given seed. Use if you have a strong source of external
// randomness, or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
