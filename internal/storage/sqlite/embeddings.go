// ABOUTME: Embedding persistence and cosine-similarity semantic search
// ABOUTME: Vectors are stored as little-endian float64 BLOBs alongside their dimension
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aihub/aihub/internal/models"
)

// vectorToBlob serializes a vector as little-endian float64 bytes.
func vectorToBlob(vec []float64) []byte {
	blob := make([]byte, len(vec)*8)
	for i, v := range vec {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

func blobToVector(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 8", len(blob))
	}
	vec := make([]float64, len(blob)/8)
	for i := range vec {
		vec[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return vec, nil
}

// cosineSimilarity returns 0 when either vector has zero magnitude.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func (s *Store) putEmbedding(tx *sql.Tx, id int64, vec []float64) error {
	_, err := s.txExec(tx, `
		INSERT INTO embeddings (conversation_id, dimension, vector) VALUES (?, ?, ?)
		ON CONFLICT(conversation_id) DO UPDATE SET dimension = excluded.dimension, vector = excluded.vector`,
		id, len(vec), vectorToBlob(vec))
	if err != nil {
		return writeErr("store embedding", err)
	}
	return nil
}

// SearchSemantic ranks stored conversations by cosine similarity against the
// query vector. Only embeddings of the same dimension participate; the scan is
// linear over the embeddings table. At most 50 matches come back, best first.
func (s *Store) SearchSemantic(ctx context.Context, query []float64) ([]models.VectorMatch, error) {
	var (
		matches []models.VectorMatch
		err     error
	)
	if serr := s.submit(ctx, func() { matches, err = s.searchSemantic(query) }); serr != nil {
		return nil, serr
	}
	return matches, err
}

func (s *Store) searchSemantic(query []float64) ([]models.VectorMatch, error) {
	if len(query) == 0 {
		return nil, nil
	}

	rows, err := s.db.conn.Query(
		`SELECT conversation_id, vector FROM embeddings WHERE dimension = ?`, len(query))
	if err != nil {
		return nil, readErr("semantic search", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []models.VectorMatch
	for rows.Next() {
		var (
			id   int64
			blob []byte
		)
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, readErr("semantic search", err)
		}
		vec, err := blobToVector(blob)
		if err != nil {
			return nil, readErr("semantic search", err)
		}
		matches = append(matches, models.VectorMatch{
			ConversationID: id,
			Similarity:     cosineSimilarity(query, vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, readErr("semantic search", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > searchResultCap {
		matches = matches[:searchResultCap]
	}
	return matches, nil
}

// FetchEmbedding returns the stored vector for a conversation, or (nil, nil)
// when none exists.
func (s *Store) FetchEmbedding(ctx context.Context, id int64) (*models.Embedding, error) {
	var (
		emb *models.Embedding
		err error
	)
	if serr := s.submit(ctx, func() { emb, err = s.fetchEmbedding(id) }); serr != nil {
		return nil, serr
	}
	return emb, err
}

func (s *Store) fetchEmbedding(id int64) (*models.Embedding, error) {
	var (
		dimension int
		blob      []byte
	)
	err := s.db.conn.QueryRow(
		`SELECT dimension, vector FROM embeddings WHERE conversation_id = ?`, id).
		Scan(&dimension, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, readErr("fetch embedding", err)
	}
	vec, err := blobToVector(blob)
	if err != nil {
		return nil, readErr("fetch embedding", err)
	}
	return &models.Embedding{ConversationID: id, Dimension: dimension, Vector: vec}, nil
}
