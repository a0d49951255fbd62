package models

type DashboardStats struct {
	UsersTotal          int   `json:"usersTotal"`
	TeamsTotal          int   `json:"teamsTotal"`
	TournamentsTotal    int   `json:"tournamentsTotal"`
	TournamentsUpcoming int   `json:"tournamentsUpcoming"`
	TournamentsLive     int   `json:"tournamentsLive"`
	TournamentsEnded    int   `json:"tournamentsEnded"`
	ParticipantsTotal   int   `json:"participantsTotal"`
	DepositsTotal       Money `json:"depositsTotal"`
	WithdrawalsTotal    Money `json:"withdrawalsTotal"`
	EntryFeesTotal      Money `json:"entryFeesTotal"`
	PrizesPaidTotal     Money `json:"prizesPaidTotal"`
	ReferralBonusTotal  Money `json:"referralBonusTotal"`
}
