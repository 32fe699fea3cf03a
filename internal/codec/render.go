package codec

import "strconv"

// buffer accumulates output in reverse; the caller reverses once at
// the end. A value's length prefix is not known until its payload is
// fully written, and building in reverse lets the emitter append the
// length after the payload without shuffling already-written bytes.
//
// Invariant: buf[0:len(buf)] holds the reversed output; Reverse()
// restores natural order and must be called exactly once, after every
// value has been emitted.
type buffer struct {
	buf []byte
}

func (b *buffer) writeByte(c byte) {
	b.buf = append(b.buf, c)
}

// writeReversed appends data to the buffer in reverse byte order, so
// that the eventual whole-buffer reversal restores its natural order.
func (b *buffer) writeReversed(data []byte) {
	for i := len(data) - 1; i >= 0; i-- {
		b.buf = append(b.buf, data[i])
	}
}

// writeLengthDigits appends the decimal digits of a non-negative
// length, ones-place first — the same order produced by peeling off
// n%10 repeatedly — so that the whole-buffer reversal restores the
// digits in their natural left-to-right order.
func (b *buffer) writeLengthDigits(n int) {
	if n == 0 {
		b.writeByte('0')
		return
	}
	for n > 0 {
		b.writeByte(byte('0' + n%10))
		n /= 10
	}
}

func (b *buffer) len() int { return len(b.buf) }

func reverseBytes(data []byte) {
	for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
		data[i], data[j] = data[j], data[i]
	}
}

// Render serializes v as a tagged-netstring.
func Render(v *Value) []byte {
	var b buffer
	emitValue(&b, v)
	reverseBytes(b.buf)
	return b.buf
}

// emitValue writes tag, then payload, then ":" + payload length — in
// that order into the reversed buffer, which is exactly backwards
// from the wire order (tag last, length first). The whole-buffer
// reversal at Render's end restores the wire order.
func emitValue(b *buffer, v *Value) {
	b.writeByte(byte(v.Tag))
	start := b.len()

	switch v.Tag {
	case TagString:
		b.writeReversed(v.Str)
	case TagInt:
		b.writeReversed([]byte(strconv.FormatInt(v.Int, 10)))
	case TagBool:
		if v.Bool {
			b.writeReversed([]byte("true"))
		} else {
			b.writeReversed([]byte("false"))
		}
	case TagNull:
		// zero-length payload
	case TagList:
		for i := len(v.List) - 1; i >= 0; i-- {
			emitValue(b, v.List[i])
		}
	case TagDict:
		for i := len(v.Dict) - 1; i >= 0; i-- {
			e := v.Dict[i]
			emitValue(b, e.Value)
			emitValue(b, &Value{Tag: TagString, Str: e.Key})
		}
	}

	payloadLen := b.len() - start
	b.writeByte(':')
	b.writeLengthDigits(payloadLen)
}
