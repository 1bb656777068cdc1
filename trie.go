package atlaspack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf8"
)

// Node is one node of a name Trie: either a *Branch or a Leaf.
type Node interface {
	isNode()
}

// Branch maps the next character of a name to the subtree holding the rest.
type Branch struct {
	Children map[rune]Node
}

// Leaf holds the atlas rectangle of the one name that ends here.
type Leaf struct {
	Rect Rect
}

func (*Branch) isNode() {}
func (Leaf) isNode()    {}

func newBranch() *Branch {
	return &Branch{Children: make(map[rune]Node)}
}

// Trie resolves sprite names to atlas rectangles one character per level.
// The path from the root to a leaf spells exactly one name, so no name may
// be a strict prefix of another.
type Trie struct {
	root *Branch
	size int
}

// NewTrie returns an empty trie.
func NewTrie() *Trie {
	return &Trie{root: newBranch()}
}

// BuildTrie inserts every box under its name.
func BuildTrie(boxes []SpriteBox) (*Trie, error) {
	t := NewTrie()
	for _, b := range boxes {
		if err := t.Insert(b.Name, b.Rect()); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Root returns the root branch. Callers must not modify it.
func (t *Trie) Root() *Branch { return t.root }

// Len returns the number of names in the trie.
func (t *Trie) Len() int { return t.size }

// Insert adds name with rectangle r. The whole path is checked before
// anything is created, so a failed Insert leaves the trie unchanged.
func (t *Trie) Insert(name string, r Rect) error {
	if name == "" {
		return spriteErr(name, ErrEmptyName)
	}
	key := []rune(name)
	last := len(key) - 1

	// Walk the existing part of the path.
	cur := t.root
	depth := 0
	for ; depth < last; depth++ {
		child, ok := cur.Children[key[depth]]
		if !ok {
			break
		}
		br, isBranch := child.(*Branch)
		if !isBranch {
			// A shorter name already ends here.
			return spriteErr(name, ErrAmbiguousName)
		}
		cur = br
	}
	if depth == last {
		switch cur.Children[key[last]].(type) {
		case Leaf:
			return spriteErr(name, ErrDuplicateName)
		case *Branch:
			// name is a prefix of a longer one.
			return spriteErr(name, ErrAmbiguousName)
		}
	}

	for ; depth < last; depth++ {
		br := newBranch()
		cur.Children[key[depth]] = br
		cur = br
	}
	cur.Children[key[last]] = Leaf{Rect: r}
	t.size++
	return nil
}

// Lookup walks name one character at a time and returns its rectangle.
func (t *Trie) Lookup(name string) (Rect, bool) {
	var n Node = t.root
	for _, c := range name {
		br, ok := n.(*Branch)
		if !ok {
			return Rect{}, false
		}
		if n, ok = br.Children[c]; !ok {
			return Rect{}, false
		}
	}
	leaf, ok := n.(Leaf)
	return leaf.Rect, ok
}

// Walk calls fn for every name in ascending character order and stops at the
// first error.
func (t *Trie) Walk(fn func(name string, r Rect) error) error {
	return walk(t.root, nil, fn)
}

func walk(br *Branch, prefix []rune, fn func(string, Rect) error) error {
	for _, c := range sortedKeys(br) {
		path := append(prefix[:len(prefix):len(prefix)], c)
		switch n := br.Children[c].(type) {
		case Leaf:
			if err := fn(string(path), n.Rect); err != nil {
				return err
			}
		case *Branch:
			if err := walk(n, path, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedKeys(br *Branch) []rune {
	keys := make([]rune, 0, len(br.Children))
	for c := range br.Children {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// --- JSON index ---
//
// A branch encodes as an object keyed by single characters, a leaf as the
// array [x, y, width, height]. Keys are emitted in sorted order so the same
// trie always encodes to the same bytes.

// MarshalJSON encodes the trie as a nested index object.
func (t *Trie) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeBranch(&buf, t.root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeBranch(buf *bytes.Buffer, br *Branch) error {
	buf.WriteByte('{')
	for i, c := range sortedKeys(br) {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(c))
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		switch n := br.Children[c].(type) {
		case Leaf:
			fmt.Fprintf(buf, "[%d,%d,%d,%d]", n.Rect.X, n.Rect.Y, n.Rect.Width, n.Rect.Height)
		case *Branch:
			if err := encodeBranch(buf, n); err != nil {
				return err
			}
		}
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON replaces t with the index encoded in data.
func (t *Trie) UnmarshalJSON(data []byte) error {
	root, size, err := decodeBranch(data, "")
	if err != nil {
		return err
	}
	t.root, t.size = root, size
	return nil
}

// ParseIndex decodes an index produced by Trie.MarshalJSON.
func ParseIndex(data []byte) (*Trie, error) {
	t := NewTrie()
	if err := json.Unmarshal(data, t); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeBranch(data []byte, prefix string) (*Branch, int, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("atlaspack: index at %q: %w", prefix, err)
	}
	if raw == nil {
		return nil, 0, fmt.Errorf("atlaspack: index at %q: not an object", prefix)
	}
	if len(raw) == 0 && prefix != "" {
		return nil, 0, fmt.Errorf("atlaspack: index at %q: empty branch", prefix)
	}
	br := newBranch()
	size := 0
	for key, val := range raw {
		c, n := utf8.DecodeRuneInString(key)
		if n == 0 || n != len(key) {
			return nil, 0, fmt.Errorf("atlaspack: index at %q: key %q is not a single character", prefix, key)
		}
		path := prefix + key
		val = bytes.TrimSpace(val)
		if len(val) > 0 && val[0] == '[' {
			var v []int
			if err := json.Unmarshal(val, &v); err != nil {
				return nil, 0, fmt.Errorf("atlaspack: index leaf %q: %w", path, err)
			}
			if len(v) != 4 {
				return nil, 0, fmt.Errorf("atlaspack: index leaf %q: want 4 numbers, got %d", path, len(v))
			}
			br.Children[c] = Leaf{Rect: Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}}
			size++
			continue
		}
		child, childSize, err := decodeBranch(val, path)
		if err != nil {
			return nil, 0, err
		}
		br.Children[c] = child
		size += childSize
	}
	return br, size, nil
}
