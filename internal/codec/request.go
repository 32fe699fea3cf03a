package codec

import "strconv"

// Request builds a handler request envelope —
// "<uuid> <conn-id> <path> <netstring-encoded-headers-dict>" — using
// the same reversed-emit buffer as Render, without ever materializing
// the headers dict as a *Value. RequestStart opens the dict, one or
// more EmitHeaderPair(List) calls add entries, and End closes the
// dict and appends the uuid/id/path framing.
type Request struct {
	b           buffer
	headerStart int
}

// RequestStart opens a request by emitting the headers dict's closing
// tag (the emitter is reversed, so the dict's tag is written first).
func RequestStart() *Request {
	r := &Request{}
	r.b.writeByte(byte(TagDict))
	r.headerStart = r.b.len()
	return r
}

// EmitHeaderPair adds a single-valued header.
func (r *Request) EmitHeaderPair(key, value string) {
	emitValue(&r.b, String(value))
	emitValue(&r.b, String(key))
}

// EmitHeaderPairList adds a header whose value is itself a list,
// rendered as a nested list value.
func (r *Request) EmitHeaderPairList(key string, values []string) {
	items := make([]*Value, len(values))
	for i, v := range values {
		items[i] = String(v)
	}
	emitValue(&r.b, &Value{Tag: TagList, List: items})
	emitValue(&r.b, String(key))
}

// End closes the headers dict and appends the uuid/conn-id/path
// framing, then performs the single whole-buffer reversal that
// produces the canonical "<uuid> <id> <path> <netstring-dict>" bytes.
func (r *Request) End(uuid string, id int64, path string) []byte {
	payloadLen := r.b.len() - r.headerStart
	r.b.writeByte(':')
	r.b.writeLengthDigits(payloadLen)

	r.b.writeByte(' ')
	r.b.writeReversed([]byte(path))
	r.b.writeByte(' ')
	r.b.writeReversed([]byte(strconv.FormatInt(id, 10)))
	r.b.writeByte(' ')
	r.b.writeReversed([]byte(uuid))

	reverseBytes(r.b.buf)
	return r.b.buf
}
