package bisign

import (
	"math/big"

	"github.com/hashicorp/go-hclog"

	"github.com/arma-tools/bisign-go/pkg/bisign/bierr"
	"github.com/arma-tools/bisign-go/pkg/bisign/blob"
	"github.com/arma-tools/bisign-go/pkg/bisign/digest"
	"github.com/arma-tools/bisign-go/pkg/bisign/rsaop"
	"github.com/arma-tools/bisign-go/pkg/pbo"
)

// Verify checks signature against view using key, failing on the first
// mismatched digest. The authority name is checked before any RSA work.
func Verify(view pbo.View, key *blob.PublicKey, signature *blob.Signature) error {
	return VerifyWithLogger(view, key, signature, hclog.NewNullLogger())
}

// VerifyWithLogger is Verify with an explicit logger for diagnostics.
func VerifyWithLogger(view pbo.View, key *blob.PublicKey, signature *blob.Signature, logger hclog.Logger) error {
	if signature.Name != key.Name {
		return &bierr.AuthorityMismatchError{Expected: key.Name, Actual: signature.Name}
	}

	logger.Debug("building digests", "version", signature.Version, "length", key.Length)
	triple, err := digest.Build(view, signature.Version, key.Length)
	if err != nil {
		return err
	}
	logger.Debug("digests built", "h1", triple.H1.Text(16), "h2", triple.H2.Text(16), "h3", triple.H3.Text(16))

	recovered := [3]*big.Int{
		rsaop.Verify(signature.Sig1, big.NewInt(int64(key.Exponent)), key.N),
		rsaop.Verify(signature.Sig2, big.NewInt(int64(key.Exponent)), key.N),
		rsaop.Verify(signature.Sig3, big.NewInt(int64(key.Exponent)), key.N),
	}
	logger.Debug("digests recovered", "h1", recovered[0].Text(16), "h2", recovered[1].Text(16), "h3", recovered[2].Text(16))
	expected := [3]*big.Int{triple.H1, triple.H2, triple.H3}

	for i := range expected {
		if recovered[i].Cmp(expected[i]) != 0 {
			signedHex, realHex := displayHashes(recovered[i], expected[i])
			logger.Error("hash mismatch", "which", i+1, "signed", signedHex, "real", realHex)
			return &bierr.HashMismatchError{Which: i + 1, Signed: signedHex, Real: realHex}
		}
	}

	logger.Info("signature verified", "authority", key.Name, "version", signature.Version)
	return nil
}

// VerifyReport is the outcome of checking all three digests, for callers
// that want full diagnostics rather than the fail-fast Verify contract.
type VerifyReport struct {
	AuthorityOK bool
	HashErrors  []*bierr.HashMismatchError
}

// OK reports whether every check in the report passed.
func (r *VerifyReport) OK() bool {
	return r.AuthorityOK && len(r.HashErrors) == 0
}

// VerifyAll checks all three digests rather than stopping at the first
// mismatch, for tooling that wants to report every mismatched digest at
// once. If the authority does not match, it returns a report with
// AuthorityOK false and no digest checks run. The external Verify contract
// still returns only the first failure.
func VerifyAll(view pbo.View, key *blob.PublicKey, signature *blob.Signature) (*VerifyReport, error) {
	report := &VerifyReport{AuthorityOK: signature.Name == key.Name}
	if !report.AuthorityOK {
		return report, nil
	}

	triple, err := digest.Build(view, signature.Version, key.Length)
	if err != nil {
		return nil, err
	}

	recovered := [3]*big.Int{
		rsaop.Verify(signature.Sig1, big.NewInt(int64(key.Exponent)), key.N),
		rsaop.Verify(signature.Sig2, big.NewInt(int64(key.Exponent)), key.N),
		rsaop.Verify(signature.Sig3, big.NewInt(int64(key.Exponent)), key.N),
	}
	expected := [3]*big.Int{triple.H1, triple.H2, triple.H3}

	for i := range expected {
		if recovered[i].Cmp(expected[i]) != 0 {
			signedHex, realHex := displayHashes(recovered[i], expected[i])
			report.HashErrors = append(report.HashErrors, &bierr.HashMismatchError{
				Which: i + 1, Signed: signedHex, Real: realHex,
			})
		}
	}

	return report, nil
}

// displayHashes formats a recovered/expected pair for a HashMismatchError.
// When both hex strings are longer than a bare SHA-1 (40 chars) and share
// an identical leading run - the PKCS#1 padding - only the trailing 40
// characters are kept so the report highlights the digest, not the
// padding.
func displayHashes(signed, real *big.Int) (string, string) {
	signedHex := signed.Text(16)
	realHex := real.Text(16)

	if len(signedHex) != len(realHex) || len(signedHex) <= 40 {
		return signedHex, realHex
	}

	signedPad, signedTail := signedHex[:len(signedHex)-40], signedHex[len(signedHex)-40:]
	realPad, realTail := realHex[:len(realHex)-40], realHex[len(realHex)-40:]

	if signedPad != realPad {
		return signedHex, realHex
	}
	return signedTail, realTail
}
