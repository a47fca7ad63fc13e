package layout

import (
	"encoding/binary"
	"fmt"
)

// XMSSHash names the hash function of an XMSS parameter set.
type XMSSHash string

// Supported XMSS hash functions.
const (
	XMSSSHA2     XMSSHash = "SHA2"
	XMSSSHAKE128 XMSSHash = "SHAKE128"
	XMSSSHAKE256 XMSSHash = "SHAKE256"
)

// XMSSParams describes one XMSS parameter set with n=32 and w=16.
type XMSSParams struct {
	Hash   XMSSHash
	Height int
	OID    uint32
}

var xmssParamSets = []XMSSParams{
	{XMSSSHA2, 10, 0x00000001},
	{XMSSSHA2, 16, 0x00000002},
	{XMSSSHA2, 20, 0x00000003},
	{XMSSSHAKE128, 10, 0x00000007},
	{XMSSSHAKE128, 16, 0x00000008},
	{XMSSSHAKE128, 20, 0x00000009},
	{XMSSSHAKE256, 10, 0x00000010},
	{XMSSSHAKE256, 16, 0x00000011},
	{XMSSSHAKE256, 20, 0x00000012},
}

// DefaultXMSS is XMSS-SHA2_10_256, the parameter set exchanged by default.
var DefaultXMSS = XMSSParams{Hash: XMSSSHA2, Height: 10, OID: 0x00000001}

// LookupXMSS returns the parameter set for a hash function and tree height.
func LookupXMSS(hash XMSSHash, height int) (XMSSParams, bool) {
	for _, p := range xmssParamSets {
		if p.Hash == hash && p.Height == height {
			return p, true
		}
	}
	return XMSSParams{}, false
}

// LookupXMSSOID returns the parameter set registered under oid.
func LookupXMSSOID(oid uint32) (XMSSParams, bool) {
	for _, p := range xmssParamSets {
		if p.OID == oid {
			return p, true
		}
	}
	return XMSSParams{}, false
}

// OIDBytes returns the big-endian encoding of the parameter set's OID.
func (p XMSSParams) OIDBytes() []byte {
	return binary.BigEndian.AppendUint32(nil, p.OID)
}

// SignatureSize returns the signature length for this parameter set.
func (p XMSSParams) SignatureSize() int {
	return XMSSSignatureSize(p.Height)
}

func (p XMSSParams) String() string {
	return fmt.Sprintf("XMSS-%s_%d_256", p.Hash, p.Height)
}
