package main

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const leaderboardKeyPrefix = "leaderboard:exam:"

// LeaderboardEntry represents a leaderboard entry
type LeaderboardEntry struct {
	Candidate string  `json:"candidate"`
	Score     float64 `json:"score"`
	Rank      int64   `json:"rank"`
}

// LeaderboardRepository handles Redis ZSet operations for per-exam score boards
type LeaderboardRepository struct {
	client *redis.Client
	ctx    context.Context
}

// NewLeaderboardRepository creates a new leaderboard repository
func NewLeaderboardRepository(client *redis.Client) *LeaderboardRepository {
	return &LeaderboardRepository{
		client: client,
		ctx:    context.Background(),
	}
}

// UpdateScore records a candidate's score in the exam's ZSet. ZAddGT keeps
// the candidate's best score across attempts.
func (r *LeaderboardRepository) UpdateScore(examID, candidate string, score float64) error {
	return r.client.ZAddGT(r.ctx, leaderboardKeyPrefix+examID, redis.Z{
		Score:  score,
		Member: candidate,
	}).Err()
}

// GetTop returns the top N candidates for an exam, best score first.
func (r *LeaderboardRepository) GetTop(examID string, limit int64) ([]LeaderboardEntry, error) {
	// ZREVRANGE returns highest to lowest (descending order)
	results, err := r.client.ZRevRangeWithScores(r.ctx, leaderboardKeyPrefix+examID, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, result := range results {
		entries[i] = LeaderboardEntry{
			Candidate: result.Member.(string),
			Score:     result.Score,
			Rank:      int64(i) + 1, // 1-indexed rank
		}
	}

	return entries, nil
}

// GetCandidateRank returns a candidate's rank for an exam (1-indexed, 0 if not found)
func (r *LeaderboardRepository) GetCandidateRank(examID, candidate string) (int64, error) {
	// ZREVRANK returns 0-based rank (highest score = rank 0)
	rank, err := r.client.ZRevRank(r.ctx, leaderboardKeyPrefix+examID, candidate).Result()
	if err == redis.Nil {
		return 0, nil // Candidate not on the board
	}
	if err != nil {
		return 0, err
	}
	return rank + 1, nil // Convert to 1-indexed
}
