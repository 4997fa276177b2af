package request

// CreateDuelRequest is the request body for challenging another player
type CreateDuelRequest struct {
	OpponentID string `json:"opponent_id"`
}

// SubmitActionRequest is the request body for playing an action
type SubmitActionRequest struct {
	Action string `json:"action"`
}
