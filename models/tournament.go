package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие CHECK в БД.
type TournamentStatus string

const (
	StatusUpcoming TournamentStatus = "upcoming"
	StatusLive     TournamentStatus = "live"
	StatusEnded    TournamentStatus = "ended"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusEnded:
		return true
	}
	return false
}

type Tournament struct {
	ID                  int              `json:"id"`
	Title               string           `json:"title"`
	Description         *string          `json:"description,omitempty"`
	GameID              int              `json:"gameId"`
	EntryFee            Money            `json:"entryFee"`
	PrizePool           Money            `json:"prizePool"`
	MaxParticipants     int              `json:"maxParticipants"`
	CurrentParticipants int              `json:"currentParticipants"`
	Status              TournamentStatus `json:"status"`
	StartTime           time.Time        `json:"startTime"`
	EndTime             *time.Time       `json:"endTime,omitempty"`
	Rules               *string          `json:"rules,omitempty"`
	BannerKey           *string          `json:"-"`
	BannerURL           *string          `json:"bannerUrl,omitempty"`
	CreatedAt           time.Time        `json:"createdAt"`
}

type TournamentFilter struct {
	Status *TournamentStatus
	GameID *int
	Limit  int
	Offset int
}
