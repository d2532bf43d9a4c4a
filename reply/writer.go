package reply

// Writer consumes the event stream produced by serializing one value.
//
// StartArray and EndArray calls nest and must balance. The length passed to
// StartArray equals the number of events delivered at that nesting level
// before the matching EndArray; callers compute it up front, arrays of
// unknown length cannot be streamed.
type Writer interface {
	// WriteBool writes a boolean value.
	WriteBool(v bool)

	// WriteBulk writes a binary-safe string.
	WriteBulk(s string)

	// WriteDouble writes a floating-point value.
	WriteDouble(f float64)

	// WriteInt writes a signed integer.
	WriteInt(i int64)

	// StartArray opens an array of exactly n elements.
	StartArray(n int)

	// EndArray closes the innermost open array.
	EndArray()

	// WriteNull writes the absence of a value.
	WriteNull()

	// WriteStatus writes a simple status line (e.g. "OK", "PONG").
	WriteStatus(s string)

	// WriteError writes an error line. Error lines are ordinary events:
	// emitting one does not abort the stream.
	WriteError(s string)
}
