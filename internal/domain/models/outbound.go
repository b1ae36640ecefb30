package models

// OutboundMessage is a manual text alert. An empty To addresses the owner.
type OutboundMessage struct {
	To      string `json:"to"`
	Message string `json:"message" binding:"required"`
}
