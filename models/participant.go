package models

import "time"

type TournamentParticipant struct {
	ID           int       `json:"id"`
	TournamentID int       `json:"tournamentId"`
	UserID       int       `json:"userId"`
	TeamID       *int      `json:"teamId,omitempty"`
	JoinedAt     time.Time `json:"joinedAt"`
}
