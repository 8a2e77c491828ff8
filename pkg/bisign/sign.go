package bisign

import (
	"github.com/hashicorp/go-hclog"

	"github.com/arma-tools/bisign-go/pkg/bisign/blob"
	"github.com/arma-tools/bisign-go/pkg/bisign/digest"
	"github.com/arma-tools/bisign-go/pkg/bisign/rsaop"
	"github.com/arma-tools/bisign-go/pkg/pbo"
)

// Sign computes the three padded digests for view under version and signs
// each with key's private exponent, returning a signature blob carrying
// key's public fields.
func Sign(view pbo.View, key *blob.PrivateKey, version blob.Version) (*blob.Signature, error) {
	return SignWithLogger(view, key, version, hclog.NewNullLogger())
}

// SignWithLogger is Sign with an explicit logger for diagnostics.
func SignWithLogger(view pbo.View, key *blob.PrivateKey, version blob.Version, logger hclog.Logger) (*blob.Signature, error) {
	logger.Debug("building digests", "version", version, "length", key.Length)

	triple, err := digest.Build(view, version, key.Length)
	if err != nil {
		return nil, err
	}
	logger.Debug("digests built", "h1", triple.H1.Text(16), "h2", triple.H2.Text(16), "h3", triple.H3.Text(16))

	sig := &blob.Signature{
		Version:  version,
		Name:     key.Name,
		Length:   key.Length,
		Exponent: key.Exponent,
		N:        key.N,
		Sig1:     rsaop.Sign(triple.H1, key.D, key.N),
		Sig2:     rsaop.Sign(triple.H2, key.D, key.N),
		Sig3:     rsaop.Sign(triple.H3, key.D, key.N),
	}

	logger.Info("signed PBO", "authority", key.Name, "version", version)
	return sig, nil
}
