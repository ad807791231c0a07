package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashIsSalted(t *testing.T) {
	h := New(bcrypt.MinCost)

	d1, err := h.Hash("pw1")
	require.NoError(t, err)
	d2, err := h.Hash("pw1")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2)
	assert.NotContains(t, d1, "pw1")
	assert.True(t, h.Verify("pw1", d1))
	assert.True(t, h.Verify("pw1", d2))
}

func TestHasher_Verify(t *testing.T) {
	h := New(bcrypt.MinCost)
	digest, err := h.Hash("correct horse")
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
		digest    string
		want      bool
	}{
		{name: "match", plaintext: "correct horse", digest: digest, want: true},
		{name: "wrong password", plaintext: "correct horsex", digest: digest},
		{name: "empty digest", plaintext: "correct horse", digest: ""},
		{name: "malformed digest", plaintext: "correct horse", digest: "$2a$10$not-a-real-hash"},
		{name: "plaintext stored as digest", plaintext: "correct horse", digest: "correct horse"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Verify(tt.plaintext, tt.digest))
		})
	}
}

func TestHasher_TooLong(t *testing.T) {
	h := New(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("a", MaxLength+1))
	require.ErrorIs(t, err, ErrTooLong)

	_, err = h.Hash(strings.Repeat("a", MaxLength))
	require.NoError(t, err)
}

func TestNew_CostFallback(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, New(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, New(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, New(12).cost)
}
