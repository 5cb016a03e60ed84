package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProtocolIDString(t *testing.T) {
	id := NewProtocolID("deadbeef")
	require.Equal(t, "bnqp/0/deadbeef", id.String())
}

func TestParseProtocolID(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id, err := ParseProtocolID("bnqp/0/deadbeef")
		require.NoError(t, err)
		require.Equal(t, "0", id.Version)
		require.Equal(t, "deadbeef", id.ChainHash)
	})

	cases := []struct {
		name     string
		protocol string
	}{
		{"wrong prefix", "http/0/deadbeef"},
		{"wrong version", "bnqp/1/deadbeef"},
		{"missing parts", "bnqp/0"},
		{"too many parts", "bnqp/0/deadbeef/builder"},
		{"short chain hash", "bnqp/0/dead"},
		{"non-hex chain hash", "bnqp/0/deadbeeX"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseProtocolID(tc.protocol)
			require.Error(t, err)
		})
	}
}

func TestAcceptableProtocols(t *testing.T) {
	protocols := AcceptableProtocols("deadbeef")
	require.Equal(t, []string{"bnqp/0/deadbeef"}, protocols)
	for _, p := range protocols {
		require.NoError(t, ValidateALPNProtocol(p))
	}
}
