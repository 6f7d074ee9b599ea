package model

import (
	"fmt"
)

type FileChangeType int

const (
	FileUnchanged FileChangeType = iota
	FileAdded
	FileRemoved
	FileRenamed
)

func (t FileChangeType) String() string {
	switch t {
	case FileUnchanged:
		return "unchanged"
	case FileAdded:
		return "added"
	case FileRemoved:
		return "removed"
	case FileRenamed:
		return "renamed"
	default:
		return fmt.Sprintf("FileChangeType(%d)", int(t))
	}
}

type FileChange struct {
	Type     FileChangeType
	Path     string
	OldPath  string
	Fragment string
}

func (c *FileChange) String() string {
	switch c.Type {
	case FileRenamed:
		return fmt.Sprintf("%v file: %v -> %v", c.Type, c.OldPath, c.Path)
	default:
		return fmt.Sprintf("%v file: %v", c.Type, c.Path)
	}
}

// Changes is the classification of every path touched by a diff.
type Changes struct {
	// Files holds the paths that exist after the change: added, unchanged and the new side of renames.
	Files []string
	// List holds every classified change grouped as added, renamed, removed and unchanged.
	List []*FileChange
}

func NewChanges() *Changes {
	return &Changes{}
}

func (c *Changes) ByType(t FileChangeType) []*FileChange {
	var result []*FileChange
	for _, fc := range c.List {
		if fc.Type == t {
			result = append(result, fc)
		}
	}
	return result
}

// Notable returns the changes worth mentioning in a commit message, skipping unchanged files.
func (c *Changes) Notable() []*FileChange {
	var result []*FileChange
	for _, fc := range c.List {
		if fc.Type != FileUnchanged {
			result = append(result, fc)
		}
	}
	return result
}
