package model

import (
	"strings"
	"time"
)

type Commit struct {
	Hash       string
	Message    string
	Author     string
	Date       time.Time
	ParentHash string
}

func (c *Commit) ShortHash() string {
	if len(c.Hash) <= 7 {
		return c.Hash
	}
	return c.Hash[:7]
}

// Subject is the first line of the message.
func (c *Commit) Subject() string {
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return strings.TrimSpace(subject)
}

func (c *Commit) IsRoot() bool {
	return c.ParentHash == ""
}
