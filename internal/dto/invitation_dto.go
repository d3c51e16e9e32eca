package dto

type InviteRequest struct {
	Email string `json:"email"`
}

type ReviewInvitationRequest struct {
	Status string `json:"status"`
}
