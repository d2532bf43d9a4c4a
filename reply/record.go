package reply

// Kind identifies one of the nine event kinds.
type Kind int

const (
	KindBool Kind = iota
	KindBulk
	KindDouble
	KindInt
	KindArrayStart
	KindArrayEnd
	KindNull
	KindStatus
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindBulk:
		return "bulk"
	case KindDouble:
		return "double"
	case KindInt:
		return "int"
	case KindArrayStart:
		return "array-start"
	case KindArrayEnd:
		return "array-end"
	case KindNull:
		return "null"
	case KindStatus:
		return "status"
	case KindError:
		return "error"
	}
	return "unknown"
}

// Event is one recorded write. Only the field matching Kind is meaningful.
type Event struct {
	Kind  Kind
	Bool  bool
	Str   string
	Float float64
	Int   int64
	Len   int
}

// Recorder captures the event stream verbatim. It performs no validation
// and never fails; tests and introspection tooling read Events afterwards.
type Recorder struct {
	Events []Event
}

func (r *Recorder) WriteBool(v bool)      { r.Events = append(r.Events, Event{Kind: KindBool, Bool: v}) }
func (r *Recorder) WriteBulk(s string)    { r.Events = append(r.Events, Event{Kind: KindBulk, Str: s}) }
func (r *Recorder) WriteDouble(f float64) { r.Events = append(r.Events, Event{Kind: KindDouble, Float: f}) }
func (r *Recorder) WriteInt(i int64)      { r.Events = append(r.Events, Event{Kind: KindInt, Int: i}) }
func (r *Recorder) StartArray(n int)      { r.Events = append(r.Events, Event{Kind: KindArrayStart, Len: n}) }
func (r *Recorder) EndArray()             { r.Events = append(r.Events, Event{Kind: KindArrayEnd}) }
func (r *Recorder) WriteNull()            { r.Events = append(r.Events, Event{Kind: KindNull}) }
func (r *Recorder) WriteStatus(s string)  { r.Events = append(r.Events, Event{Kind: KindStatus, Str: s}) }
func (r *Recorder) WriteError(s string)   { r.Events = append(r.Events, Event{Kind: KindError, Str: s}) }

// Reset discards all recorded events so the Recorder can serve another pass.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}
