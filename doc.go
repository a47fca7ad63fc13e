// Package crossverify checks that two independent implementations of the
// same post-quantum signature scheme agree byte for byte.
//
// A subject implementation (go-qrllib) and a reference implementation
// exchange public keys, signatures, messages and seeds through a blob
// channel. Each side signs and self-verifies its own artifacts, then the
// other side translates them into its own wire format and verifies them.
// Supported families are Dilithium5, ML-DSA-87, SPHINCS+-SHAKE-256s and
// XMSS-SHA2_10_256.
//
// Basic usage:
//
//	v, err := crossverify.New(crossverify.WithChannelURI("mem://"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Close()
//
//	// Subject signs, reference verifies.
//	reports, err := v.RoundTrip(ctx, crossverify.MLDSA, crossverify.Subject)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range reports {
//	    fmt.Println(strings.Join(r.Lines(), "\n"))
//	}
//
// Producer and consumer can also run as separate processes sharing a
// directory or a Redis server; see Produce and Consume.
package crossverify
