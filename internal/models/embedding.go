// ABOUTME: Embedding is the stored semantic vector for a conversation
// ABOUTME: VectorMatch pairs a conversation id with its cosine similarity score
package models

// Embedding is a fixed-length semantic vector, 1:1 with a Conversation. The
// vector is produced by an external model; Dimension always equals len(Vector).
type Embedding struct {
	ConversationID int64     `json:"conversation_id"`
	Dimension      int       `json:"dimension"`
	Vector         []float64 `json:"vector"`
}

// VectorMatch is a semantic-search hit before the preview is re-fetched.
type VectorMatch struct {
	ConversationID int64   `json:"conversation_id"`
	Similarity     float64 `json:"similarity"`
}
