package models

import "time"

type TournamentResult struct {
	ID           int       `json:"id"`
	TournamentID int       `json:"tournamentId"`
	UserID       int       `json:"userId"`
	TeamID       *int      `json:"teamId,omitempty"`
	Position     int       `json:"position"`
	Kills        int       `json:"kills"`
	Points       int       `json:"points"`
	PrizeWon     Money     `json:"prizeWon"`
	CreatedAt    time.Time `json:"createdAt"`
}
