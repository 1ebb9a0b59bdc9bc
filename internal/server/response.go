package server

import (
	"supportbot/internal/domain"
	"supportbot/internal/session"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

func ErrorResponse(message string, data interface{}) Response {
	return Response{Success: false, Message: message, Data: data}
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

type DocumentView struct {
	Name     string `json:"name"`
	Format   string `json:"format"`
	Sections int    `json:"sections"`
}

type SessionView struct {
	ID            string        `json:"id"`
	Mode          session.Mode  `json:"mode"`
	Document      *DocumentView `json:"document,omitempty"`
	CurrentQuery  string        `json:"current_query,omitempty"`
	LastAnswer    string        `json:"last_answer,omitempty"`
	FeedbackCount int           `json:"feedback_count"`
	Transcript    []domain.Turn `json:"transcript"`
}

func newSessionView(id string, s session.State) SessionView {
	v := SessionView{
		ID:            id,
		Mode:          s.Mode,
		CurrentQuery:  s.CurrentQuery,
		LastAnswer:    s.LastAnswer,
		FeedbackCount: s.FeedbackCount,
		Transcript:    s.Transcript,
	}
	if s.Document != nil {
		v.Document = &DocumentView{Name: s.Document.Name, Format: s.Document.Format, Sections: len(s.Document.Sections)}
	}
	return v
}
