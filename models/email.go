package models

type Email struct {
	To      string
	Subject string
	Body    string
}

// Message is an outbound notification as accepted by the message API.
type Message struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type MessageReceipt struct {
	ID string `json:"id"`
}
