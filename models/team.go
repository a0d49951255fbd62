package models

import "time"

type TeamRole string

const (
	RoleCaptain TeamRole = "captain"
	RoleMember  TeamRole = "member"
)

type Team struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	CaptainID      int       `json:"captainId"`
	MaxMembers     int       `json:"maxMembers"`
	CurrentMembers int       `json:"currentMembers"`
	JoinCode       string    `json:"joinCode"`
	Wins           int       `json:"wins"`
	MatchesPlayed  int       `json:"matchesPlayed"`
	CreatedAt      time.Time `json:"createdAt"`
}

type TeamMember struct {
	ID       int       `json:"id"`
	TeamID   int       `json:"teamId"`
	UserID   int       `json:"userId"`
	Role     TeamRole  `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}
