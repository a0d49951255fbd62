package models

import "time"

type User struct {
	ID            int       `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	PasswordHash  string    `json:"-"`
	WalletBalance Money     `json:"walletBalance"`
	BonusCoins    int       `json:"bonusCoins"`
	ReferralCode  string    `json:"referralCode"`
	ReferredBy    *int      `json:"referredBy,omitempty"`
	IsAdmin       bool      `json:"isAdmin"`
	AvatarKey     *string   `json:"-"`
	AvatarURL     *string   `json:"avatarUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// UserFilter используется админкой для поиска пользователей.
type UserFilter struct {
	Search string
	Limit  int
	Offset int
}
