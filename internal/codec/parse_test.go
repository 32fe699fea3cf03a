package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CanonicalValues(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want *Value
		rest string
	}{
		{"string", "5:hello,", String("hello"), ""},
		{"string with trailer", "5:hello,world", String("hello"), "world"},
		{"empty string", "0:,", String(""), ""},
		{"integer", "3:123#", Int(123), ""},
		{"negative integer", "4:-123#", Int(-123), ""},
		{"bool true", "4:true!", Bool(true), ""},
		{"bool false", "5:false!", Bool(false), ""},
		{"null", "0:~extra", Null(), "extra"},
		{"empty list", "0:]", List(), ""},
		{"empty dict", "0:}", Dict(), ""},
		{
			"nested list",
			"21:5:hello,3:123#4:true!]",
			List(String("hello"), Int(123), Bool(true)),
			"",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, rest, err := Parse([]byte(c.in))
			require.NoError(t, err)
			assert.Equal(t, c.rest, string(rest))
			if c.want != nil {
				assert.True(t, c.want.Equal(got), "got %+v", got)
			}
		})
	}
}

func TestParse_DictStructure(t *testing.T) {
	// {"foo": ["bar"], "baz": "qux"} — dict key order is not guaranteed
	// on the wire, so assert via Get rather than positional equality.
	in := `27:3:foo,6:3:bar,]3:baz,3:qux,}`
	got, rest, err := Parse([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, "", string(rest))
	assert.Equal(t, TagDict, got.Tag)

	foo, ok := got.Get("foo")
	require.True(t, ok)
	assert.True(t, foo.Equal(List(String("bar"))))

	baz, ok := got.Get("baz")
	require.True(t, ok)
	assert.True(t, baz.Equal(String("qux")))
}

func TestParse_RoundTrip(t *testing.T) {
	values := []*Value{
		String("hello world"),
		String(""),
		Int(0),
		Int(-42),
		Bool(true),
		Bool(false),
		Null(),
		List(),
		List(String("a"), Int(1), Bool(false), Null()),
		Dict(),
		Dict(
			DictEntry{Key: []byte("k1"), Value: String("v1")},
			DictEntry{Key: []byte("k2"), Value: List(Int(1), Int(2), Int(3))},
		),
		List(List(List(String("deep")))),
	}

	for _, v := range values {
		wire := Render(v)
		got, rest, err := Parse(wire)
		require.NoError(t, err)
		assert.Empty(t, rest)
		assert.True(t, v.Equal(got), "round trip mismatch for %+v: wire=%q got=%+v", v, wire, got)
	}
}

func TestParse_RejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"no length prefix", "hello,"},
		{"missing colon", "5hello,"},
		{"redundant leading zero", "05:hello,"},
		{"payload overruns input", "10:hello,"},
		{"bad integer literal", "3:12a#"},
		{"bad boolean literal", "5:mayben!"},
		{"nonzero null length", "1:~"},
		{"unknown type tag", "5:hello?"},
		{"truncated list item", "3:5:a]"},
		{"dict key not a string", "9:3:123#0:~}"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := Parse([]byte(c.in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
		})
	}
}

func TestParse_EmptyInput(t *testing.T) {
	_, _, err := Parse(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
}
