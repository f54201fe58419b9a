package trace

// unmatchedClose returns the index of the first ')' in s that closes a
// parenthesis opened before s began, or -1.
func unmatchedClose(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return i
			}
		}
	}
	return -1
}

// balancedFromFirstOpen returns the text from the first '(' in s through its
// matching ')'. If s has no '(' or the group never closes, s is returned as is.
func balancedFromFirstOpen(s string) string {
	start := -1
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			if start < 0 {
				start = i
			}
			depth++
		case ')':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s
}
