package match

// Kind names the field a Mismatch was found against.
type Kind int

const (
	MismatchMethod Kind = iota
	MismatchPath
	MismatchQuery
	MismatchHeader
	MismatchBody
)

func (k Kind) String() string {
	switch k {
	case MismatchMethod:
		return "method"
	case MismatchPath:
		return "path"
	case MismatchQuery:
		return "query"
	case MismatchHeader:
		return "header"
	case MismatchBody:
		return "body"
	default:
		return "unknown"
	}
}

// Mismatch is one structured discrepancy between a recorded request and
// the incoming request. The engine collects these per candidate rather
// than failing fast, so Phase 3 can rank candidates by mismatch count
// (spec 4.C).
type Mismatch struct {
	Kind   Kind
	Detail string
}

// disqualifies reports whether this mismatch alone rules a candidate out,
// per spec 4.C Phase 2:
//   - Method/Path/Query mismatches are always disqualifying.
//   - Body mismatches are disqualifying only when the actual request is a
//     POST/PUT/PATCH carrying a non-empty body.
func (m Mismatch) disqualifies(bodySensitive bool) bool {
	switch m.Kind {
	case MismatchMethod, MismatchPath, MismatchQuery:
		return true
	case MismatchBody:
		return bodySensitive
	default:
		return false
	}
}

// methodSupportsPayload reports whether method customarily carries a
// request body, per spec 4.C / original_source/src/server.rs.
func methodSupportsPayload(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH":
		return true
	default:
		return false
	}
}
