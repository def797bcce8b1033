package engine

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites mesh script source into something zygomys
// accepts:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols and cannot clash with user variables.
//  2. kebab-case identifiers become snake_case (remove-face -> remove_face);
//     zygomys reads a hyphen as subtraction.
//  3. ; line comments become // comments.
//
// String literals are copied untouched.
func preprocessSource(source string) string {
	p := preprocessor{src: []byte(source)}
	p.out = make([]byte, 0, len(source)+len(source)/4)
	for p.pos < len(p.src) {
		switch c := p.src[p.pos]; {
		case c == '"':
			p.copyQuoted('"', true)
		case c == '`':
			p.copyQuoted('`', false)
		case c == ';':
			p.comment()
		case c == ':' && p.peek(1) == '=':
			p.copyN(2)
		case c == ':' && isLetter(p.peek(1)):
			p.keyword()
		case c == '-' && p.pos > 0 && isIdentChar(p.src[p.pos-1]) && isLetter(p.peek(1)):
			p.out = append(p.out, '_')
			p.pos++
		default:
			p.copyN(1)
		}
	}
	return string(p.out)
}

type preprocessor struct {
	src []byte
	out []byte
	pos int
}

// peek returns the byte n positions ahead, or 0 past the end.
func (p *preprocessor) peek(n int) byte {
	if p.pos+n < len(p.src) {
		return p.src[p.pos+n]
	}
	return 0
}

func (p *preprocessor) copyN(n int) {
	end := min(p.pos+n, len(p.src))
	p.out = append(p.out, p.src[p.pos:end]...)
	p.pos = end
}

// copyQuoted copies a literal delimited by quote, honoring backslash
// escapes when escapes is set.
func (p *preprocessor) copyQuoted(quote byte, escapes bool) {
	p.copyN(1)
	for p.pos < len(p.src) && p.src[p.pos] != quote {
		if escapes && p.src[p.pos] == '\\' {
			p.copyN(2)
			continue
		}
		p.copyN(1)
	}
	p.copyN(1)
}

func (p *preprocessor) comment() {
	p.out = append(p.out, '/', '/')
	for p.pos < len(p.src) && p.src[p.pos] == ';' {
		p.pos++
	}
	for p.pos < len(p.src) && p.src[p.pos] != '\n' {
		p.copyN(1)
	}
}

func (p *preprocessor) keyword() {
	start := p.pos + 1
	end := start
	for end < len(p.src) && isKWChar(p.src[end]) {
		end++
	}
	p.out = append(p.out, '"')
	p.out = append(p.out, kwPrefix...)
	p.out = append(p.out, p.src[start:end]...)
	p.out = append(p.out, '"')
	p.pos = end
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
