// Package qrllib provides the subject-side providers, backed by
// github.com/theQRL/go-qrllib.
//
// Every provider here implements provider.Seeded. Dilithium and SPHINCS+
// can sign with any well-formed secret key. ML-DSA-87 and XMSS can only
// sign through the instance that generated the key, so those providers
// keep a keyring of instances created by their own key generation calls
// and fail with rounderrors.ErrUnknownSecretKey for any other key. XMSS
// instances are stateful: each Sign advances the one-time key index.
package qrllib
