package cache

import "strings"

// QueryKey identifies a cached view. The first segment is the collection name;
// further segments describe the view (search text, filters).
type QueryKey []string

func Key(segments ...string) QueryKey {
	return QueryKey(segments)
}

func (k QueryKey) Collection() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

// HasPrefix reports whether k starts with every segment of prefix.
func (k QueryKey) HasPrefix(prefix QueryKey) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (k QueryKey) String() string {
	return "[" + strings.Join(k, ",") + "]"
}

func (k QueryKey) id() string {
	return strings.Join(k, "\x1f")
}

func (k QueryKey) clone() QueryKey {
	out := make(QueryKey, len(k))
	copy(out, k)
	return out
}
