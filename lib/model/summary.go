package model

import (
	"time"
)

type FileSummary struct {
	Path string
	Text string
}

type Summary struct {
	CommitHash string
	Model      string
	Files      []*FileSummary
	Message    string
	Date       time.Time
}

func NewSummary(commitHash, model string) *Summary {
	return &Summary{
		CommitHash: commitHash,
		Model:      model,
	}
}
