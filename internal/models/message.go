package models

import "time"

// ChoiceOption is one selectable answer of a choice message.
type ChoiceOption struct {
	ID      string         `json:"id"`
	Label   string         `json:"label"`
	Payload map[string]any `json:"payload"`
}

// SystemMessage is a host or system notice shown to the player. Once
// ChosenOptionID is set it never changes.
type SystemMessage struct {
	ID             string          `json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	Severity       MessageSeverity `json:"severity"`
	Title          string          `json:"title"`
	Body           string          `json:"body"`
	Collapsible    bool            `json:"collapsible"`
	Choices        []ChoiceOption  `json:"choices"`
	ChosenOptionID *string         `json:"chosen_option_id"`
	Sound          MessageSeverity `json:"sound"`
	Effect         *string         `json:"effect"`
}

// IsChoice reports whether the message offers options.
func (m SystemMessage) IsChoice() bool { return len(m.Choices) > 0 }

// HasOption reports whether optionID is one of the message's choices.
func (m SystemMessage) HasOption(optionID string) bool {
	for _, c := range m.Choices {
		if c.ID == optionID {
			return true
		}
	}
	return false
}

func (m *SystemMessage) normalize() {
	if !m.Severity.Valid() {
		m.Severity = SeverityInfo
	}
	if !m.Sound.Valid() {
		m.Sound = m.Severity
	}
	if m.Choices == nil {
		m.Choices = []ChoiceOption{}
	}
	for i := range m.Choices {
		if m.Choices[i].Payload == nil {
			m.Choices[i].Payload = map[string]any{}
		}
	}
}

// MessageTemplate is a reusable system message draft.
type MessageTemplate struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	Severity    MessageSeverity `json:"severity"`
	Collapsible bool            `json:"collapsible"`
}
