package models

import "time"

type NotificationType string

const (
	NotificationTournament NotificationType = "tournament"
	NotificationWallet     NotificationType = "wallet"
	NotificationTeam       NotificationType = "team"
	NotificationReferral   NotificationType = "referral"
	NotificationSystem     NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTournament, NotificationWallet, NotificationTeam, NotificationReferral, NotificationSystem:
		return true
	}
	return false
}

type Notification struct {
	ID        int              `json:"id"`
	UserID    int              `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
