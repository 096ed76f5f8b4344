package record

import "strings"

// valueAfter returns the text between the first occurrence of marker and
// the next occurrence of end.
func valueAfter(content, file, marker, end string) (string, error) {
	start := strings.Index(content, marker)
	if start == -1 {
		return "", &MarkerError{File: file, Marker: marker}
	}
	start += len(marker)

	n := strings.Index(content[start:], end)
	if n == -1 {
		return "", &ParseError{File: file, Marker: marker, Reason: "is not terminated by " + quoteDelim(end)}
	}
	return content[start : start+n], nil
}

// allValuesAfter returns every value delimited by marker and end, in order.
// A trailing occurrence without its end delimiter is a ParseError.
func allValuesAfter(content, file, marker, end string) ([]string, error) {
	var values []string
	rest := content
	for {
		i := strings.Index(rest, marker)
		if i == -1 {
			return values, nil
		}
		rest = rest[i+len(marker):]
		n := strings.Index(rest, end)
		if n == -1 {
			return nil, &ParseError{File: file, Marker: marker, Reason: "is not terminated by " + quoteDelim(end)}
		}
		values = append(values, rest[:n])
		rest = rest[n+len(end):]
	}
}

// listBody returns the text inside the list opened by marker, which must end
// with '['. The closing bracket is found by depth counting; brackets inside
// quoted strings and # comments are ignored, so nested lists and comments do
// not end the scan early. Comments are removed from the returned body.
func listBody(content, file, marker string) (string, error) {
	start := strings.Index(content, marker)
	if start == -1 {
		return "", &MarkerError{File: file, Marker: marker}
	}
	start += len(marker)

	end := matchBracket(content[start:])
	if end == -1 {
		return "", &ParseError{File: file, Marker: marker, Reason: "has no closing ]"}
	}
	return stripComments(content[start : start+end]), nil
}

// matchBracket returns the index in s of the ']' that closes an already
// opened '[' or -1.
func matchBracket(s string) int {
	depth := 1
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '#':
			i = commentEnd(s, i) - 1
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stripComments drops every # comment outside a quoted string, keeping the
// line breaks.
func stripComments(s string) string {
	if !strings.Contains(s, "#") {
		return s
	}
	var b strings.Builder
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			b.WriteByte(c)
			switch c {
			case '\\':
				if i+1 < len(s) {
					i++
					b.WriteByte(s[i])
				}
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '#':
			i = commentEnd(s, i) - 1
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// commentEnd returns the index of the newline ending the comment at i, or
// len(s).
func commentEnd(s string, i int) int {
	if n := strings.IndexByte(s[i:], '\n'); n != -1 {
		return i + n
	}
	return len(s)
}

// splitList splits a list body on commas and strips quotes and spaces.
func splitList(body string) []string {
	var items []string
	for _, part := range strings.Split(body, ",") {
		item := strings.Trim(part, " \t\r\n'\"")
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func quoteDelim(d string) string {
	if d == "\n" {
		return "a newline"
	}
	return "'" + d + "'"
}
