package utils

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/constraints"
)

func Min[T constraints.Ordered](a T, bs ...T) T {
	result := a
	for _, b := range bs {
		if result > b {
			result = b
		}
	}
	return result
}

func Max[T constraints.Ordered](a T, bs ...T) T {
	result := a
	for _, b := range bs {
		if result < b {
			result = b
		}
	}
	return result
}

func IIf[T any](test bool, ifTrue, ifFalse T) T {
	if test {
		return ifTrue
	} else {
		return ifFalse
	}
}

func PathAbs(path string) (string, error) {
	if strings.HasPrefix(filepath.ToSlash(path), "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		path = filepath.Join(home, path[2:])
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return path, nil
}
