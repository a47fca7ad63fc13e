package circl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/provider"
	"github.com/pqinterop/crossverify/internal/rounderrors"
)

func providers(t *testing.T) []*Provider {
	t.Helper()
	d, err := NewDilithium()
	require.NoError(t, err)
	m, err := NewMLDSA()
	require.NoError(t, err)
	return []*Provider{d, m}
}

func TestSizesMatchLayout(t *testing.T) {
	for _, p := range providers(t) {
		t.Run(string(p.Family()), func(t *testing.T) {
			pk, _ := layout.Size(p.Family(), layout.Reference, layout.PublicKey)
			sk, _ := layout.Size(p.Family(), layout.Reference, layout.SecretKey)
			sig, _ := layout.Size(p.Family(), layout.Reference, layout.Signature)
			seed, _ := layout.Size(p.Family(), layout.Reference, layout.Seed)
			assert.Equal(t, pk, p.scheme.PublicKeySize())
			assert.Equal(t, sk, p.scheme.PrivateKeySize())
			assert.Equal(t, sig, p.scheme.SignatureSize())
			assert.Equal(t, seed, p.SeedSize())
		})
	}
}

func TestSignVerify(t *testing.T) {
	for _, p := range providers(t) {
		t.Run(string(p.Family()), func(t *testing.T) {
			pk, sk, err := p.Keypair()
			require.NoError(t, err)

			for _, msg := range [][]byte{{}, []byte("test"), bytes.Repeat([]byte{0x5A}, layout.MaxMessageBytes)} {
				sig, err := p.Sign(msg, provider.NoContext(), sk)
				require.NoError(t, err)
				ok, err := p.Verify(sig, msg, provider.NoContext(), pk)
				require.NoError(t, err)
				assert.True(t, ok, "rejected %d-byte message", len(msg))
			}

			msg := []byte("test")
			sig, err := p.Sign(msg, provider.NoContext(), sk)
			require.NoError(t, err)

			badSig := bytes.Clone(sig)
			badSig[0] ^= 0xFF
			ok, err := p.Verify(badSig, msg, provider.NoContext(), pk)
			require.NoError(t, err)
			assert.False(t, ok, "tampered signature accepted")

			badPK := bytes.Clone(pk)
			badPK[len(badPK)-1] ^= 0x01
			ok, err = p.Verify(sig, msg, provider.NoContext(), badPK)
			require.NoError(t, err)
			assert.False(t, ok, "tampered public key accepted")

			_, err = p.Sign(msg, provider.NoContext(), sk[:len(sk)-1])
			assert.ErrorIs(t, err, rounderrors.ErrLengthMismatch)
			_, err = p.Verify(sig[:len(sig)-1], msg, provider.NoContext(), pk)
			assert.ErrorIs(t, err, rounderrors.ErrLengthMismatch)
		})
	}
}

func TestMLDSA_ContextSeparation(t *testing.T) {
	p, err := NewMLDSA()
	require.NoError(t, err)
	pk, sk, err := p.Keypair()
	require.NoError(t, err)

	msg := []byte("test")
	sig, err := p.Sign(msg, provider.NewContext([]byte("ctx")), sk)
	require.NoError(t, err)

	ok, err := p.Verify(sig, msg, provider.NewContext([]byte("ctx")), pk)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Verify(sig, msg, provider.NewContext(nil), pk)
	require.NoError(t, err)
	assert.False(t, ok, "\"ctx\" signature accepted under \"\"")
}

func TestDilithium_RejectsContext(t *testing.T) {
	p, err := NewDilithium()
	require.NoError(t, err)
	_, sk, err := p.Keypair()
	require.NoError(t, err)
	_, err = p.Sign([]byte("test"), provider.NewContext([]byte("ctx")), sk)
	assert.ErrorIs(t, err, rounderrors.ErrContextUnsupported)
}

func TestKeypair_PinnedRandomness(t *testing.T) {
	p, err := NewMLDSA()
	require.NoError(t, err)
	seed := bytes.Repeat([]byte{0x42}, p.SeedSize())

	restore := SetRandReaderForTesting(bytes.NewReader(bytes.Clone(seed)))
	pk, _, err := p.Keypair()
	restore()
	require.NoError(t, err)

	want, _, err := p.KeypairFromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, want, pk)
}
