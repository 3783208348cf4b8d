package vectorstore

// Hit is one search result: the stored text, its insertion index and score.
type Hit struct {
	Index int
	Text  string
	Score float32
}

// Storage persists vectors and supports similarity search.
type Storage interface {
	Init(dimension int) error
	Upsert(texts []string, vectors [][]float32) error
	Search(vector []float32, topK int) ([]Hit, error)
	Clear() error
}
