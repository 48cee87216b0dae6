package elem

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_PreservesOrder(t *testing.T) {
	v, err := Unmarshal([]byte(`{"zeta": 1, "alpha": [true, null, "s"], "mid": {"b": 2, "a": 1}}`))
	require.NoError(t, err)

	obj, ok := v.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())

	mid, ok := obj.Get("mid")
	require.True(t, ok)

	inner, _ := mid.AsObject()
	assert.Equal(t, []string{"b", "a"}, inner.Keys())

	assert.Equal(t, `{"zeta":1,"alpha":[true,null,"s"],"mid":{"b":2,"a":1}}`, v.String())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"truncated", `{"a": `},
		{"trailing", `{} {}`},
		{"empty", ``},
		{"missing_value", `{"a": }`},
		{"yaml_mapping", "a: 1"},
		{"single_quoted", `{'a': 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestDecode_DuplicateKeys(t *testing.T) {
	v, err := Unmarshal([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"b":2}`, v.String())
}

func TestUnmarshalYAML_PreservesOrder(t *testing.T) {
	v, err := UnmarshalYAML([]byte("zeta: 1\nalpha:\n  - 2.5\n  - -3\nmid:\n  b: x\n  a: true\n"))
	require.NoError(t, err)

	obj, ok := v.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())
	assert.Equal(t, `{"zeta":1,"alpha":[2.5,-3],"mid":{"b":"x","a":true}}`, v.String())
}

func TestObject_Member(t *testing.T) {
	obj := NewObject().
		Set("null", Null()).
		Set("n", Number(1))

	_, ok := obj.Get("null")
	assert.True(t, ok, "Get reports null members")
	assert.False(t, obj.Has("null"), "Has hides null members")
	assert.True(t, obj.Has("n"))
	assert.False(t, obj.Has("missing"))

	obj.Set("null", Number(2))
	assert.Equal(t, []string{"null", "n"}, obj.Keys(), "replacement keeps position")

	var nilObj *Object
	assert.Equal(t, 0, nilObj.Len())
	assert.False(t, nilObj.Has("x"))
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"b": []any{1, int32(2), uint8(3), 4.5},
		"a": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":null,"b":[1,2,3,4.5]}`, v.String())

	_, err = FromAny(struct{}{})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestValue_Any(t *testing.T) {
	v, err := Unmarshal([]byte(`{"a": [1, "x", false]}`))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"a": []any{1.0, "x", false}}, v.Any())
}
