package cert

import (
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, validity time.Duration) (*Generator, ed25519.PublicKey) {
	pub, prv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return NewGenerator(Config{
		PublicKey:          pub,
		PrivateKey:         prv,
		CertValidityPeriod: validity,
	}), pub
}

func TestGenerateAndValidateCertificate(t *testing.T) {
	gen, pub := generate(t, 24*time.Hour)

	cert, err := gen.GenerateCertificate()
	require.NoError(t, err)
	require.NotNil(t, cert.Leaf)

	validator := NewValidator()
	require.NoError(t, validator.ValidateCertificate(cert.Leaf))

	extracted, err := validator.ExtractPublicKey(cert.Leaf)
	require.NoError(t, err)
	require.Equal(t, pub, extracted)
}

func TestValidateRejectsExpiredCertificate(t *testing.T) {
	gen, _ := generate(t, -time.Hour)

	cert, err := gen.GenerateCertificate()
	require.NoError(t, err)

	err = NewValidator().ValidateCertificate(cert.Leaf)
	require.ErrorContains(t, err, "expired")
}

func TestEncodePubKeyToDNS(t *testing.T) {
	_, pub := generate(t, time.Hour)
	name := EncodePubKeyToDNS(pub)
	require.Len(t, name, encodedNameLength)
	require.Equal(t, DNSNamePrefix, name[:1])
}
