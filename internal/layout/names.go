package layout

// ReferencePrefix namespaces blobs written by the reference side.
const ReferencePrefix = "ref_"

// BlobName returns the channel name of an artifact, "{family}_{kind}".
func BlobName(f Family, k Kind) string {
	return string(f) + "_" + string(k)
}

// Prefix returns the blob name prefix used by a producer in the given format.
func Prefix(producer Format) string {
	if producer == Reference {
		return ReferencePrefix
	}
	return ""
}

// Published lists the artifact kinds a producer writes for a family.
// Contexts are only published by families that support them.
func Published(f Family) []Kind {
	kinds := []Kind{PublicKey, Signature, Message}
	if f.SupportsContext() {
		kinds = append(kinds, Context)
	}
	kinds = append(kinds, Seed)
	if f == XMSS {
		kinds = append(kinds, SKSeed, SKPRF, PubSeed)
	}
	return kinds
}
