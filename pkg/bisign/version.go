// Package bisign is the signer/verifier facade: it drives the digest
// builder and RSA engine end to end and serializes the result through the
// blob codec. The CLI is the only consumer that needs a version string;
// the core itself never reads it.
package bisign

// Version is the core library's version, owned here rather than composed
// from build metadata at import time.
const Version = "0.1.0"
