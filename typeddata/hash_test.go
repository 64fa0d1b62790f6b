package typeddata

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func mailTypes() Types {
	return Types{
		"Person": []Field{{Name: "name", Type: "string"}, {Name: "wallet", Type: "address"}},
		"Mail":   []Field{{Name: "from", Type: "Person"}, {Name: "to", Type: "Person"}},
	}
}

func TestTypeString(t *testing.T) {
	types := mailTypes()
	require.Equal(t, "Person(string name,address wallet)", typeString("Person", types))
	require.Equal(t, "Mail(Person from,Person to)Person(string name,address wallet)", typeString("Mail", types))
}

func TestTypeStringSortsDependencies(t *testing.T) {
	types := Types{
		"Outer": []Field{{Name: "b", Type: "Bravo"}, {Name: "a", Type: "Alpha"}},
		"Bravo": []Field{{Name: "v", Type: "uint256"}},
		"Alpha": []Field{{Name: "v", Type: "uint256"}},
	}
	require.Equal(t, "Outer(Bravo b,Alpha a)Alpha(uint256 v)Bravo(uint256 v)", typeString("Outer", types))
}

func TestEncodeData(t *testing.T) {
	types := mailTypes()
	person := map[string]json.RawMessage{
		"name":   json.RawMessage(`"Cow"`),
		"wallet": json.RawMessage(`"0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826"`),
	}

	rst, err := encodeData("Person", person, types)
	require.NoError(t, err)

	addressType, err := abi.NewType("address", "", nil)
	require.NoError(t, err)
	args := abi.Arguments{{Type: bytes32Type}, {Type: bytes32Type}, {Type: addressType}}
	expected, err := args.Pack(
		typeHash("Person", types),
		crypto.Keccak256Hash([]byte("Cow")),
		common.HexToAddress("0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826"),
	)
	require.NoError(t, err)
	require.Equal(t, crypto.Keccak256Hash(expected), rst)
}

func TestEncodeDataNestedStructs(t *testing.T) {
	types := mailTypes()
	message := map[string]json.RawMessage{
		"from": json.RawMessage(`{"name":"Cow","wallet":"0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826"}`),
		"to":   json.RawMessage(`{"name":"Bob","wallet":"0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB"}`),
	}

	rst, err := encodeData("Mail", message, types)
	require.NoError(t, err)
	require.NotEqual(t, common.Hash{}, rst)

	// swapping the recipients must change the hash
	swapped := map[string]json.RawMessage{
		"from": message["to"],
		"to":   message["from"],
	}
	other, err := encodeData("Mail", swapped, types)
	require.NoError(t, err)
	require.NotEqual(t, rst, other)
}

func TestEncodeDataScalarTypes(t *testing.T) {
	types := Types{
		"Order": []Field{
			{Name: "amount", Type: "uint256"},
			{Name: "active", Type: "bool"},
			{Name: "id", Type: "bytes32"},
			{Name: "payload", Type: "bytes"},
		},
	}
	order := map[string]json.RawMessage{
		"amount":  json.RawMessage("42"),
		"active":  json.RawMessage("true"),
		"id":      json.RawMessage(`"0x0102030000000000000000000000000000000000000000000000000000000000"`),
		"payload": json.RawMessage(`"0xdeadbeef"`),
	}

	rst, err := encodeData("Order", order, types)
	require.NoError(t, err)
	require.NotEqual(t, common.Hash{}, rst)
}

func TestEncodeDataRejectsComposites(t *testing.T) {
	types := Types{
		"Batch": []Field{{Name: "ids", Type: "uint256[]"}},
	}
	batch := map[string]json.RawMessage{
		"ids": json.RawMessage("[1,2,3]"),
	}

	_, err := encodeData("Batch", batch, types)
	require.Error(t, err)
}
