// Package tree holds the in-memory command tree: for every working
// directory, the argument prefixes that have been seen or discovered there.
package tree

import "strings"

// Node is one argument position. Each key is a token seen at that position;
// a leaf is an empty Node. Only the existence of a key carries information.
type Node map[string]Node

// Tree maps a working directory to the root Node of its recorded arguments.
type Tree map[string]Node

// New returns an empty tree.
func New() Tree {
	return Tree{}
}

// Update records tokens as a path beneath directory and reports whether any
// new token node was created.
//
// Processing stops at the first token containing a space; neither it nor any
// later token is recorded. Creating the directory entry on its own does not
// count as a modification.
func Update(t Tree, directory string, tokens []string) bool {
	node, ok := t[directory]
	if !ok || node == nil {
		node = Node{}
		t[directory] = node
	}

	modified := false
	for _, token := range tokens {
		if strings.Contains(token, " ") {
			break
		}

		child, exists := node[token]
		if !exists {
			modified = true
		}
		if child == nil {
			// a null child in a loaded document is an empty node
			child = Node{}
			node[token] = child
		}
		node = child
	}

	return modified
}

// Update is a convenience wrapper around the package-level Update.
func (t Tree) Update(directory string, tokens []string) bool {
	return Update(t, directory, tokens)
}

// Has reports whether the exact path directory/tokens... exists.
func (t Tree) Has(directory string, tokens ...string) bool {
	node, ok := t[directory]
	if !ok {
		return false
	}
	for _, token := range tokens {
		child, ok := node[token]
		if !ok {
			return false
		}
		node = child
	}
	return true
}

// Size counts the token nodes recorded across all directories.
func (t Tree) Size() int {
	var count func(n Node) int
	count = func(n Node) int {
		total := len(n)
		for _, child := range n {
			total += count(child)
		}
		return total
	}

	total := 0
	for _, node := range t {
		total += count(node)
	}
	return total
}
