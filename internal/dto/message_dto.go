package dto

type SendMessageRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
