package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_SingleHeader(t *testing.T) {
	r := RequestStart()
	r.EmitHeaderPair("k", "v")
	got := r.End("u1", 42, "/p")

	assert.Equal(t, "u1 42 /p 8:1:k,1:v,}", string(got))
}

func TestRequest_NoHeaders(t *testing.T) {
	r := RequestStart()
	got := r.End("uuid-0", 1, "/")

	assert.Equal(t, "uuid-0 1 / 0:}", string(got))
}

func TestRequest_HeaderList(t *testing.T) {
	r := RequestStart()
	r.EmitHeaderPairList("accept", []string{"a", "b"})
	got := r.End("uuid-1", 7, "/x")

	// headers dict: {"accept": ["a", "b"]}
	// list value rendered: 8:1:a,1:b,]  (11 bytes)
	// key rendered:         6:accept,   (9 bytes)
	// dict payload = 11 + 9 = 20 bytes
	assert.Equal(t, "uuid-1 7 /x 20:6:accept,8:1:a,1:b,]}", string(got))
}

func TestRequest_HeadersParseBackToOriginalDict(t *testing.T) {
	r := RequestStart()
	r.EmitHeaderPair("content-type", "text/plain")
	r.EmitHeaderPairList("x-multi", []string{"one", "two", "three"})
	wire := r.End("a-uuid", 99, "/resource")

	// Split off the "<uuid> <id> <path> " prefix by hand, then parse
	// the remaining netstring dict and check it round-trips.
	prefix := "a-uuid 99 /resource "
	require.True(t, len(wire) > len(prefix))
	require.Equal(t, prefix, string(wire[:len(prefix)]))

	dict, rest, err := Parse(wire[len(prefix):])
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, TagDict, dict.Tag)

	ct, ok := dict.Get("content-type")
	require.True(t, ok)
	assert.True(t, ct.Equal(String("text/plain")))

	multi, ok := dict.Get("x-multi")
	require.True(t, ok)
	assert.True(t, multi.Equal(List(String("one"), String("two"), String("three"))))
}
