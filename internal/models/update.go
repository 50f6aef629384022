package models

// UpdateResult is the body of a successful /update call. Result is shown to
// the user verbatim.
type UpdateResult struct {
	Result string `json:"result"`
}

// UpdateEvent is pushed to dashboard websocket clients after an update.
type UpdateEvent struct {
	CharacterID   int64  `json:"character_id"`
	CharacterName string `json:"character_name"`
	NewRecords    int    `json:"new_records"`
	Result        string `json:"result"`
}
