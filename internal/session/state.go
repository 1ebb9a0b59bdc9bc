package session

import (
	"supportbot/internal/domain"
	"supportbot/internal/index"
)

// Mode is the input the session expects next.
type Mode string

const (
	ModeWaitingForUpload   Mode = "waiting_for_upload"
	ModeWaitingForQuery    Mode = "waiting_for_query"
	ModeWaitingForFeedback Mode = "waiting_for_feedback"
)

// Bot messages shown in the transcript.
const (
	MsgWelcome         = "Please upload a PDF or TXT file to start."
	MsgUploadFirst     = "Please upload a file first."
	MsgFileProcessed   = "File processed. You can now ask questions."
	MsgUnsupported     = "Unsupported file format. Please upload a PDF or TXT file."
	MsgDecodeFailure   = "Could not read the file. Please upload a valid PDF or TXT file."
	MsgFeedbackPrompt  = "Please provide feedback: good, too vague, not helpful."
	MsgThanks          = "Thank you for your feedback. You can ask another question."
	MsgMaxIterations   = "Maximum feedback iterations reached. You can ask another question."
	MsgInvalidFeedback = "Please provide valid feedback: good, too vague, not helpful."
)

// State is everything one conversation knows. Values are replaced, never edited in place:
// Machine methods take a State and return the next one.
type State struct {
	Mode     Mode
	Document *domain.Document
	Index    index.Index
	// CurrentQuery and CurrentContext are the query being refined and the section it resolved to.
	CurrentQuery   string
	CurrentContext string
	LastAnswer     string
	FeedbackCount  int
	Transcript     []domain.Turn
}

// NewState returns a session waiting for its first document.
func NewState() State {
	return State{
		Mode:       ModeWaitingForUpload,
		Transcript: []domain.Turn{{Speaker: domain.SpeakerBot, Text: MsgWelcome}},
	}
}

// clone copies the transcript so the returned state never aliases the input.
func (s State) clone() State {
	s.Transcript = append([]domain.Turn(nil), s.Transcript...)
	return s
}

func (s *State) say(speaker domain.Speaker, text string) {
	s.Transcript = append(s.Transcript, domain.Turn{Speaker: speaker, Text: text})
}

func answerTurn(answer string) string {
	return "Answer: " + answer + "\n" + MsgFeedbackPrompt
}

func updatedTurn(answer string) string {
	return "Updated answer: " + answer + "\n" + MsgFeedbackPrompt
}
