package models

type LeaderboardEntry struct {
	Rank          int     `json:"rank"`
	UserID        int     `json:"userId"`
	Username      string  `json:"username"`
	AvatarURL     *string `json:"avatarUrl,omitempty"`
	WalletBalance Money   `json:"walletBalance"`
	BonusCoins    int     `json:"bonusCoins"`
	Score         Money   `json:"score"`

	AvatarKey *string `json:"-"`
}
