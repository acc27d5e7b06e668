package sqlspec

import (
	"github.com/cespare/xxhash/v2"
)

// Fingerprint is a stable, collision-resistant key derived from the
// canonical form of cache inputs (spec §4.6). It is two independent 64-bit
// xxhash digests over the same bytes with a salt, giving a 128-bit space —
// the snapsql repo never needed fingerprinting, so this hashing strategy is
// grounded on cespare/xxhash as used by grafana-tempo and go-mysql-server
// for exactly this purpose (cache/shard keys), not on snapsql itself.
type Fingerprint [2]uint64

// NewFingerprint hashes the given canonical byte slices into one
// Fingerprint. Callers must render inputs (AST, config, extras) into a
// canonical, deterministic byte form before calling this — never hash raw
// source text alone for AST-derived keys (spec §4.6).
func NewFingerprint(parts ...[]byte) Fingerprint {
	d1 := xxhash.New()
	d2 := xxhash.New()
	_, _ = d2.Write([]byte{0x5a}) // salt so d2 diverges from d1 on identical input
	for _, p := range parts {
		_, _ = d1.Write(p)
		_, _ = d2.Write(p)
	}
	return Fingerprint{d1.Sum64(), d2.Sum64()}
}

// Combine folds another fingerprint into this one, used to build composite
// keys (e.g. pipeline cache key = parse_key + config + extras + param shape)
// without re-hashing all constituent bytes.
func (f Fingerprint) Combine(other Fingerprint) Fingerprint {
	return Fingerprint{
		mix(f[0], other[0]),
		mix(f[1], other[1]),
	}
}

func mix(a, b uint64) uint64 {
	a ^= b + 0x9e3779b97f4a7c15 + (a << 6) + (a >> 2)
	return a
}
