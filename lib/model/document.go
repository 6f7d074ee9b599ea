package model

type Document struct {
	Source string
	Text   string
}

func NewDocument(source, text string) *Document {
	return &Document{
		Source: source,
		Text:   text,
	}
}

type Chunk struct {
	ID        UUID
	Source    string
	Text      string
	Embedding []float32
}

func NewChunk(source, text string) *Chunk {
	return &Chunk{
		ID:     NewUUID("c"),
		Source: source,
		Text:   text,
	}
}
