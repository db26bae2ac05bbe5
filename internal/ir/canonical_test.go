package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"zeta":  "z",
		"alpha": int64(1),
		"mid":   true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":1,"mid":true,"zeta":"z"}`, string(got))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	got, err := MarshalCanonical("<a & b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(got))
}

func TestMarshalCanonicalLineSeparatorsUnescaped(t *testing.T) {
	got, err := MarshalCanonical("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(got))
}

func TestMarshalCanonicalLiteralBackslashU2028Preserved(t *testing.T) {
	got, err := MarshalCanonical(`x\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"x\\u2028"`, string(got))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute accent normalizes to a single code point.
	got, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonicalUTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D..., which sort before U+FF61 in
	// UTF-16 but after it in UTF-8.
	got, err := MarshalCanonical(map[string]any{
		"\uFF61":     int64(1),
		"\U0001F600": int64(2),
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uFF61\":1}", string(got))
}

func TestMarshalCanonicalRejectsFloatAndNull(t *testing.T) {
	_, err := MarshalCanonical(1.5)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"k": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null")
}

func TestMarshalCanonicalNested(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"list":  []any{"b", int64(2), []string{"x"}},
		"props": map[string]string{"b": "2", "a": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"list":["b",2,["x"]],"props":{"a":"1","b":"2"}}`, string(got))
}

type canonicalStub struct{ name string }

func (c canonicalStub) Canonical() map[string]any {
	return map[string]any{"name": c.name}
}

func TestMarshalCanonicalUsesCanonicaler(t *testing.T) {
	got, err := MarshalCanonical([]any{canonicalStub{name: "shop"}})
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"shop"}]`, string(got))
}
