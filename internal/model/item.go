package model

// Item is a single todo entry.
// Field names match the persisted snapshot: {"text": ..., "completed": ...}.
type Item struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}
