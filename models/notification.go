package models

// PushTarget identifies a notification recipient and its registered FCM token.
type PushTarget struct {
	ID       string `bson:"id" json:"id"`
	Role     string `bson:"role" json:"role"` // "doctor" or "hospital"
	FCMToken string `bson:"fcmToken" json:"fcmToken"`
}
