package layout

const (
	// MaxMessageBytes is the transport capacity for an exchanged message.
	// It is a buffer limit of the exchange, not a protocol limit.
	MaxMessageBytes = 256

	// MaxContextBytes is the largest domain-separation context ML-DSA accepts.
	MaxContextBytes = 255

	// DilithiumPublicKeySize is the size of a Dilithium5 (round 3) public key in bytes.
	DilithiumPublicKeySize = 2592
	// DilithiumSecretKeySize is the size of a Dilithium5 (round 3) secret key in bytes.
	DilithiumSecretKeySize = 4864
	// DilithiumSignatureSize is the size of a Dilithium5 (round 3) signature in bytes.
	DilithiumSignatureSize = 4595
	// DilithiumSeedSize is the size of the key-generation seed in bytes.
	DilithiumSeedSize = 32

	// MLDSAPublicKeySize is the size of an ML-DSA-87 public key in bytes.
	MLDSAPublicKeySize = 2592
	// MLDSASecretKeySize is the size of an ML-DSA-87 secret key in bytes.
	MLDSASecretKeySize = 4896
	// MLDSASignatureSize is the size of an ML-DSA-87 signature in bytes.
	MLDSASignatureSize = 4627
	// MLDSASeedSize is the size of the ML-DSA-87 key-generation seed (xi) in bytes.
	MLDSASeedSize = 32

	// SPHINCSN is the SPHINCS+-SHAKE-256s security parameter n in bytes.
	SPHINCSN = 32
	// SPHINCSPublicKeySize is pub_seed || root.
	SPHINCSPublicKeySize = 2 * SPHINCSN
	// SPHINCSSecretKeySize is sk_seed || sk_prf || pub_seed || root.
	SPHINCSSecretKeySize = 4 * SPHINCSN
	// SPHINCSSignatureSize is the size of a SPHINCS+-SHAKE-256s signature in bytes.
	SPHINCSSignatureSize = 29792
	// SPHINCSSeedSize is sk_seed || sk_prf || pub_seed.
	SPHINCSSeedSize = 3 * SPHINCSN

	// XMSSN is the hash output length n for the supported XMSS parameter sets.
	XMSSN = 32
	// XMSSOIDSize is the length of the big-endian algorithm identifier that
	// prefixes reference-format public keys.
	XMSSOIDSize = 4
	// XMSSSubjectPublicKeySize is root || pub_seed.
	XMSSSubjectPublicKeySize = 2 * XMSSN
	// XMSSReferencePublicKeySize is OID || root || pub_seed.
	XMSSReferencePublicKeySize = XMSSOIDSize + XMSSSubjectPublicKeySize
	// XMSSSecretKeySize is idx(4) || sk_seed || sk_prf || pub_seed || root.
	XMSSSecretKeySize = 4 + 4*XMSSN
	// XMSSSeedSize is the size of the exchanged key-generation seed. Both
	// sides expand it with SHAKE-256 before building the tree.
	XMSSSeedSize = 48
	// XMSSExpandedSeedSize is sk_seed || sk_prf || pub_seed, the seed layout
	// reference implementations build keys from.
	XMSSExpandedSeedSize = 3 * XMSSN
	// XMSSWOTSLen is the number of WOTS+ chains for n=32, w=16.
	XMSSWOTSLen = 67
)

// Offsets into an XMSS subject secret key.
const (
	XMSSOffsetIndex   = 0
	XMSSOffsetSKSeed  = XMSSOffsetIndex + 4
	XMSSOffsetSKPRF   = XMSSOffsetSKSeed + XMSSN
	XMSSOffsetPubSeed = XMSSOffsetSKPRF + XMSSN
	XMSSOffsetRoot    = XMSSOffsetPubSeed + XMSSN
)

// Offsets into a SPHINCS+ seed. The same offsets hold for the first three
// components of a SPHINCS+ secret key.
const (
	SPHINCSOffsetSKSeed  = 0
	SPHINCSOffsetSKPRF   = SPHINCSOffsetSKSeed + SPHINCSN
	SPHINCSOffsetPubSeed = SPHINCSOffsetSKPRF + SPHINCSN
	SPHINCSOffsetRoot    = SPHINCSOffsetPubSeed + SPHINCSN
)

// XMSSSignatureSize returns idx(4) || r(n) || WOTS signature || auth path for height h.
func XMSSSignatureSize(height int) int {
	return 4 + XMSSN + XMSSWOTSLen*XMSSN + height*XMSSN
}
