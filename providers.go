package crossverify

import (
	"github.com/pqinterop/crossverify/internal/layout"
	"github.com/pqinterop/crossverify/internal/provider"
	"github.com/pqinterop/crossverify/internal/provider/circl"
	"github.com/pqinterop/crossverify/internal/provider/qrllib"
	"github.com/pqinterop/crossverify/internal/provider/reference"
)

// Registry maps a family and side to the provider that implements it.
type Registry = provider.Registry

// Provider is one implementation of one family on one side.
type Provider = provider.Provider

// NewRegistry returns a registry holding ps.
func NewRegistry(ps ...Provider) *Registry { return provider.NewRegistry(ps...) }

// DefaultRegistry returns the built-in providers. The subject side is
// go-qrllib for every family. The reference side is circl for Dilithium5
// and ML-DSA-87, and reference-format adapters for SPHINCS+ and XMSS.
// Those adapters run on go-qrllib too, so their rounds check layouts and
// entry points only; the adapter names carry the backend so reports show it.
func DefaultRegistry(xmssParams layout.XMSSParams) (*Registry, error) {
	cDilithium, err := circl.NewDilithium()
	if err != nil {
		return nil, err
	}
	cMLDSA, err := circl.NewMLDSA()
	if err != nil {
		return nil, err
	}

	refSPHINCS, err := reference.NewSPHINCS(qrllib.NewSPHINCS())
	if err != nil {
		return nil, err
	}

	subXMSS, err := qrllib.NewXMSS(xmssParams)
	if err != nil {
		return nil, err
	}
	xmssBackend, err := qrllib.NewXMSS(xmssParams)
	if err != nil {
		return nil, err
	}
	refXMSS, err := reference.NewXMSS(xmssBackend, xmssParams)
	if err != nil {
		return nil, err
	}

	return provider.NewRegistry(
		qrllib.NewDilithium(), cDilithium,
		qrllib.NewMLDSA(), cMLDSA,
		qrllib.NewSPHINCS(), refSPHINCS,
		subXMSS, refXMSS,
	), nil
}
