// Package reference provides reference-format providers for the
// hash-based families.
//
// Each provider exposes the entry points and byte layouts of the
// reference implementations (crypto_sign_seed_keypair for SPHINCS+,
// OID-prefixed public keys and a signed-message open for XMSS) on top of
// a backend provider that does the hashing. The adapters assert every
// layout rule on the way in and out, so a backend that drifts from the
// reference layout fails here rather than in a peer.
//
// The default registry backs both adapters with the go-qrllib providers,
// the same code the subject side runs. Rounds against them therefore
// check wire formats and entry points, not agreement between two
// independent implementations of the hash functions. Registering an
// independent backend (any provider.Seeded for the family) restores that.
package reference
