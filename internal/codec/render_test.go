package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_CanonicalForms(t *testing.T) {
	cases := []struct {
		name string
		in   *Value
		want string
	}{
		{"string", String("hello"), "5:hello,"},
		{"empty string", String(""), "0:,"},
		{"integer", Int(123), "3:123#"},
		{"negative integer", Int(-42), "3:-42#"},
		{"zero", Int(0), "1:0#"},
		{"bool true", Bool(true), "4:true!"},
		{"bool false", Bool(false), "5:false!"},
		{"null", Null(), "0:~"},
		{"empty list", List(), "0:]"},
		{"empty dict", Dict(), "0:}"},
		{
			"list",
			List(String("hello"), Int(123), Bool(true)),
			"21:5:hello,3:123#4:true!]",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Render(c.in)
			assert.Equal(t, c.want, string(got))
		})
	}
}

func TestRender_DictPreservesInsertionOrder(t *testing.T) {
	v := Dict(
		DictEntry{Key: []byte("foo"), Value: String("bar")},
		DictEntry{Key: []byte("baz"), Value: Int(1)},
	)
	got := Render(v)
	want := "22:3:foo,3:bar,3:baz,1:1#}"
	assert.Equal(t, want, string(got))
}

func TestRender_MatchesParseOutput(t *testing.T) {
	// Render must be the exact inverse of Parse for already-canonical
	// wire text: parse it, re-render, and expect byte-identical output.
	inputs := []string{
		"5:hello,",
		"0:,",
		"3:123#",
		"4:true!",
		"5:false!",
		"0:~",
		"0:]",
		"0:}",
		"21:5:hello,3:123#4:true!]",
	}
	for _, in := range inputs {
		v, rest, err := Parse([]byte(in))
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", in, err)
		}
		if len(rest) != 0 {
			t.Fatalf("Parse(%q) left remainder %q", in, rest)
		}
		got := string(Render(v))
		assert.Equal(t, in, got)
	}
}
