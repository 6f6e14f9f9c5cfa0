// Package word provides a dictionary of valid game words loaded from a word list.
package word

import (
	"bufio"
	"io"
	"strings"
)

// Validator determines if words are valid game words.
// It also serves prefix queries so board solving can prune dead paths.
type Validator struct {
	words    map[string]struct{}
	prefixes map[string]struct{}
}

const (
	minLength = 3
	maxLength = 15
)

// NewValidator consumes the lowercase or uppercase words from the reader, one per line.
// Only alphabetic words between 3 and 15 characters are kept.
func NewValidator(r io.Reader) (*Validator, error) {
	v := Validator{
		words:    make(map[string]struct{}),
		prefixes: make(map[string]struct{}),
	}
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		w := strings.ToUpper(scanner.Text())
		if len(w) < minLength || len(w) > maxLength || !isAlphabetic(w) {
			continue
		}
		v.words[w] = struct{}{}
		for i := 1; i <= len(w); i++ {
			v.prefixes[w[:i]] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &v, nil
}

func isAlphabetic(w string) bool {
	for _, r := range w {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Contains determines if the word is a valid game word.  The word is uppercased before lookup.
func (v Validator) Contains(word string) bool {
	_, ok := v.words[strings.ToUpper(word)]
	return ok
}

// IsPrefix determines if the uppercase string starts any dictionary word, including complete words.
func (v Validator) IsPrefix(s string) bool {
	_, ok := v.prefixes[s]
	return ok
}

// Len returns the number of words in the dictionary.
func (v Validator) Len() int {
	return len(v.words)
}
