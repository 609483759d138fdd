package complete

import (
	"strings"
	"unicode/utf8"
)

type trieNode struct {
	children map[rune]*trieNode
	names    map[string]struct{}
	terminal bool
}

func newTrieNode() *trieNode {
	return &trieNode{
		children: make(map[rune]*trieNode),
		names:    make(map[string]struct{}),
	}
}

// trie indexes package names by character for prefix lookup. Every node
// carries the full set of names passing through it, so a prefix query is a
// walk plus a copy.
type trie struct {
	root *trieNode
}

func newTrie() *trie {
	return &trie{root: newTrieNode()}
}

func (t *trie) Insert(name string) {
	node := t.root
	for _, r := range strings.ToLower(name) {
		child, ok := node.children[r]
		if !ok {
			child = newTrieNode()
			node.children[r] = child
		}
		node = child
		node.names[name] = struct{}{}
	}
	node.terminal = true
}

// Prefix returns every inserted name starting with prefix.
func (t *trie) Prefix(prefix string) map[string]struct{} {
	node := t.root
	for _, r := range strings.ToLower(prefix) {
		child, ok := node.children[r]
		if !ok {
			return nil
		}
		node = child
	}
	out := make(map[string]struct{}, len(node.names))
	for name := range node.names {
		out[name] = struct{}{}
	}
	return out
}

// abbreviate collapses a package name to the first letter of each hyphen- or
// underscore-separated word: "visual-studio-code" -> "vsc".
func abbreviate(name string) string {
	var b strings.Builder
	for _, word := range strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '-' || r == '_'
	}) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(r)
	}
	return b.String()
}
