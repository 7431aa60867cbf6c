// Package gitmeta annotates snapshots with repository metadata. It only ever
// opens the local work tree; nothing here touches the network.
package gitmeta

import (
	git "github.com/go-git/go-git/v5"
)

const shortHashLen = 7

// Info is the optional header metadata for a snapshot root. Zero when the
// root is not inside a git work tree or has no resolvable HEAD.
type Info struct {
	Branch string
	Commit string
}

// Describe returns branch and abbreviated commit for the repository
// containing root. Any failure yields a zero Info; a snapshot of a plain
// directory is not an error.
func Describe(root string) Info {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Info{}
	}
	head, err := repo.Head()
	if err != nil {
		return Info{}
	}
	hash := head.Hash().String()
	if len(hash) > shortHashLen {
		hash = hash[:shortHashLen]
	}
	return Info{Branch: head.Name().Short(), Commit: hash}
}
