package duoquiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"unicode"
)

// ParseCandidates recovers a list of question candidates from an oracle reply.
// A strict decode is tried first; on failure the text is sanitized once and
// decoded again.
func ParseCandidates(reply string) ([]RawQuestionCandidate, error) {
	candidates, err := decodeCandidates(reply)
	if err != nil {
		candidates, err = decodeCandidates(SanitizeJSON(reply))
	}
	if err != nil {
		return nil, &ParseError{Reason: "reply is not a JSON array of objects", Raw: reply, Err: err}
	}
	if len(candidates) == 0 {
		return nil, &ParseError{Reason: "reply contained no questions", Raw: reply}
	}
	return candidates, nil
}

var errNotObject = errors.New("array element is not an object")

func decodeCandidates(text string) ([]RawQuestionCandidate, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &elems); err != nil {
		return nil, err
	}
	candidates := make([]RawQuestionCandidate, 0, len(elems))
	for _, elem := range elems {
		if trimmed := bytes.TrimSpace(elem); len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, errNotObject
		}
		var c RawQuestionCandidate
		if err := json.Unmarshal(elem, &c); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// SanitizeJSON repairs the usual ways a language model breaks JSON: code
// fences, prose around the array, typographic or single quotes, bare keys and
// trailing commas.
func SanitizeJSON(text string) string {
	text = stripCodeFences(text)
	if start, end := strings.Index(text, "["), strings.LastIndex(text, "]"); start >= 0 && end > start {
		text = text[start : end+1]
	}
	return repairJSON(text)
}

func stripCodeFences(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// repairJSON walks the text once, tracking whether it is inside a string, so
// that commas, colons and quotes inside string values are left alone.
// Typographic quotes are only treated as delimiters outside of strings.
func repairJSON(s string) string {
	rs := []rune(s)
	var out strings.Builder
	var last rune // last significant rune written

	write := func(r rune) {
		out.WriteRune(r)
		if !unicode.IsSpace(r) {
			last = r
		}
	}

	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '"':
			end := closingQuote(rs, i, func(q rune) bool { return q == '"' })
			out.WriteString(string(rs[i:min(end+1, len(rs))]))
			last = '"'
			i = end

		case r == '\'', isCurlyDouble(r), isCurlySingle(r):
			closes := isCurlyDouble
			switch {
			case r == '\'':
				closes = func(q rune) bool { return q == '\'' }
			case isCurlySingle(r):
				closes = isCurlySingle
			}
			end := closingQuote(rs, i, closes)
			writeQuoted(&out, rs[i+1:min(end, len(rs))])
			last = '"'
			i = end

		case r == ',':
			next := skipSpace(rs, i+1)
			if next < len(rs) && (rs[next] == ']' || rs[next] == '}') {
				continue
			}
			write(r)

		case isIdentStart(r) && (last == '{' || last == ','):
			end := i
			for end < len(rs) && isIdentPart(rs[end]) {
				end++
			}
			ident := string(rs[i:end])
			if next := skipSpace(rs, end); next < len(rs) && rs[next] == ':' {
				out.WriteString(`"` + ident + `"`)
				last = '"'
			} else {
				out.WriteString(ident)
				last = rs[end-1]
			}
			i = end - 1

		default:
			write(r)
		}
	}
	return out.String()
}

// writeQuoted writes body as a double-quoted JSON string, escaping the double
// quotes it contains and unescaping \'.
func writeQuoted(out *strings.Builder, body []rune) {
	out.WriteRune('"')
	for j := 0; j < len(body); j++ {
		switch {
		case body[j] == '\\' && j+1 < len(body):
			if body[j+1] == '\'' {
				out.WriteRune('\'')
			} else {
				out.WriteRune(body[j])
				out.WriteRune(body[j+1])
			}
			j++
		case body[j] == '"':
			out.WriteString(`\"`)
		default:
			out.WriteRune(body[j])
		}
	}
	out.WriteRune('"')
}

// closingQuote returns the index of the quote closing the string opened at
// start, or len(rs) if the string is unterminated.
func closingQuote(rs []rune, start int, closes func(rune) bool) int {
	for j := start + 1; j < len(rs); j++ {
		switch {
		case rs[j] == '\\':
			j++
		case closes(rs[j]):
			return j
		}
	}
	return len(rs)
}

func isCurlyDouble(r rune) bool {
	return r == '“' || r == '”' || r == '„' || r == '‟'
}

func isCurlySingle(r rune) bool {
	return r == '‘' || r == '’' || r == '‚' || r == '‛'
}

func skipSpace(rs []rune, i int) int {
	for i < len(rs) && unicode.IsSpace(rs[i]) {
		i++
	}
	return i
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
