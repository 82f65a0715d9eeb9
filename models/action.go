package models

// RoomAction is one accepted game action, recorded to MongoDB as telemetry.
// Room state is never rebuilt from these records.
type RoomAction struct {
	Room      string `bson:"room" json:"room"`
	PlayerID  string `bson:"playerId" json:"playerId"`
	AccountID string `bson:"accountId" json:"accountId"`
	Action    string `bson:"action" json:"action"`
	Detail    string `bson:"detail,omitempty" json:"detail,omitempty"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}
