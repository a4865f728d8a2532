package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	input := `
{
  "zeta": 1.50,
  "alpha": {"b": true, "a": null},
  "tags": ["x", "y"],
  "name": "café \"quoted\""
}
`
	v, err := Decode([]byte(input))
	require.NoError(t, err)
	require.Equal(t, Mapping, v.Kind())

	t.Run("keeps document order", func(t *testing.T) {
		var keys []string
		for _, e := range v.Entries() {
			keys = append(keys, e.Key)
		}
		assert.Equal(t, []string{"zeta", "alpha", "tags", "name"}, keys)

		alpha := v.Entries()[1].Value
		assert.Equal(t, "b", alpha.Entries()[0].Key)
		assert.Equal(t, "a", alpha.Entries()[1].Key)
	})

	t.Run("keeps number literal", func(t *testing.T) {
		zeta := v.Entries()[0].Value
		assert.Equal(t, Number, zeta.Kind())
		assert.Equal(t, "1.50", zeta.Text())
	})

	t.Run("unescapes strings", func(t *testing.T) {
		name := v.Entries()[3].Value
		assert.Equal(t, `café "quoted"`, name.Text())
	})

	t.Run("scalar sequences are flat", func(t *testing.T) {
		tags := v.Entries()[2].Value
		assert.True(t, tags.IsFlat())
		assert.Len(t, tags.Items(), 2)
		assert.False(t, v.IsFlat())
	})
}

func TestDecodeScalarDocument(t *testing.T) {
	v, err := Decode([]byte(`"hello"`))
	require.NoError(t, err)
	assert.Equal(t, String, v.Kind())
	assert.Equal(t, "hello", v.Text())

	v, err = Decode([]byte(`false`))
	require.NoError(t, err)
	b, ok := v.Bool()
	assert.True(t, ok)
	assert.False(t, b)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte(``))
	assert.Error(t, err)
}

func TestMarshalJSONKeepsOrder(t *testing.T) {
	v := NewMapping(
		Entry{Key: "b", Value: NewNumber("2")},
		Entry{Key: "a", Value: NewSequence(NewString("x"), NewNull(), NewBool(true))},
	)
	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":["x",null,true]}`, string(out))
}
