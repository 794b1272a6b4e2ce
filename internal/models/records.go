// internal/models/records.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// GameKind names the rules a session plays.
type GameKind string

const (
	KindMemory GameKind = "memory"
	KindSet    GameKind = "set"
)

// GameActionRecord is one entry of a session's action log.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"gameId"`
	Kind          GameKind               `json:"kind"`
	ActionIndex   int                    `json:"actionIndex"`
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload"`
	Timestamp     int64                  `json:"timestamp"` // unix millis
}

// GameResult summarises a finished session.
type GameResult struct {
	GameID     uuid.UUID `json:"gameId"`
	Kind       GameKind  `json:"kind"`
	ThemeName  string    `json:"themeName,omitempty"`
	Score      int       `json:"score"`
	SetsFound  int       `json:"setsFound"`
	Moves      int       `json:"moves"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}
