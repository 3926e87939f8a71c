package lockstep

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionParse(t *testing.T) {
	cond := NewCondition("sigs", "ed25519", []byte{1, 2, 3, 4})
	require.NoError(t, cond.Validate())

	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, "sigs", ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)

	// data containing a slash or newline still parses
	tricky := NewCondition("vault", "wallet", []byte("a/b\nc"))
	require.NoError(t, tricky.Validate())
	_, _, data, err = tricky.Parse()
	require.NoError(t, err)
	assert.Equal(t, []byte("a/b\nc"), data)

	var bad Condition = []byte("x")
	assert.Error(t, bad.Validate())
	_, _, _, err = bad.Parse()
	assert.Error(t, err)
}

func TestConditionAddress(t *testing.T) {
	a := NewCondition("sigs", "ed25519", []byte("first"))
	b := NewCondition("sigs", "ed25519", []byte("second"))

	require.NoError(t, a.Address().Validate())
	assert.Len(t, a.Address(), AddressLength)
	assert.False(t, a.Address().Equals(b.Address()))
	assert.True(t, a.Address().Equals(a.Address()))
}

func TestConditionJSON(t *testing.T) {
	cond := NewCondition("sigs", "ed25519", []byte{0xca, 0xfe})

	bz, err := json.Marshal(cond)
	require.NoError(t, err)
	assert.Equal(t, `"sigs/ed25519/CAFE"`, string(bz))

	var loaded Condition
	require.NoError(t, json.Unmarshal(bz, &loaded))
	assert.True(t, cond.Equals(loaded))
}

func TestAddressJSON(t *testing.T) {
	addr := NewAddress([]byte("some data"))

	bz, err := json.Marshal(addr)
	require.NoError(t, err)

	var loaded Address
	require.NoError(t, json.Unmarshal(bz, &loaded))
	assert.True(t, addr.Equals(loaded))

	// wrong size is rejected
	assert.Error(t, json.Unmarshal([]byte(`"ABCD"`), &loaded))
}

func TestAddressValidate(t *testing.T) {
	assert.NoError(t, NewAddress([]byte("x")).Validate())
	assert.Error(t, Address([]byte{1, 2, 3}).Validate())
	assert.Error(t, Address(nil).Validate())
}
