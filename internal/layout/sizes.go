package layout

// Size returns the exact length of an artifact kind for a family in a
// format, and false when the kind has no fixed size (messages, contexts)
// or the combination is unknown. XMSS sizes are for the default parameter set.
func Size(f Family, format Format, k Kind) (int, bool) {
	switch f {
	case Dilithium:
		switch k {
		case PublicKey:
			return DilithiumPublicKeySize, true
		case SecretKey:
			return DilithiumSecretKeySize, true
		case Signature:
			return DilithiumSignatureSize, true
		case Seed:
			return DilithiumSeedSize, true
		}
	case MLDSA:
		switch k {
		case PublicKey:
			return MLDSAPublicKeySize, true
		case SecretKey:
			return MLDSASecretKeySize, true
		case Signature:
			return MLDSASignatureSize, true
		case Seed:
			return MLDSASeedSize, true
		}
	case SPHINCS:
		switch k {
		case PublicKey:
			return SPHINCSPublicKeySize, true
		case SecretKey:
			return SPHINCSSecretKeySize, true
		case Signature:
			return SPHINCSSignatureSize, true
		case Seed:
			return SPHINCSSeedSize, true
		}
	case XMSS:
		return xmssSize(DefaultXMSS, format, k)
	}
	return 0, false
}

// XMSSSize is Size for an explicit XMSS parameter set.
func XMSSSize(p XMSSParams, format Format, k Kind) (int, bool) {
	return xmssSize(p, format, k)
}

func xmssSize(p XMSSParams, format Format, k Kind) (int, bool) {
	switch k {
	case PublicKey:
		if format == Reference {
			return XMSSReferencePublicKeySize, true
		}
		return XMSSSubjectPublicKeySize, true
	case SecretKey:
		return XMSSSecretKeySize, true
	case Signature:
		return p.SignatureSize(), true
	case Seed:
		return XMSSSeedSize, true
	case SKSeed, SKPRF, PubSeed:
		return XMSSN, true
	}
	return 0, false
}

// MaxSize returns the read capacity for an artifact kind. Fixed-size kinds
// use their exact size; messages and contexts use their transport limits.
func MaxSize(f Family, format Format, k Kind) int {
	switch k {
	case Message:
		return MaxMessageBytes
	case Context:
		return MaxContextBytes
	}
	n, _ := Size(f, format, k)
	return n
}
