package models

import "time"

// Objective is one step of a quest. Progress is an optional (done, total) pair.
type Objective struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Done     bool    `json:"done"`
	Progress *[2]int `json:"progress"`
}

// QuestTemplate is catalog data; started quests copy its objectives.
type QuestTemplate struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	CannotDecline bool           `json:"cannot_decline"`
	Objectives    []Objective    `json:"objectives"`
	Rewards       map[string]any `json:"rewards"`
}

// QuestInstance is a started quest.
type QuestInstance struct {
	ID          string      `json:"id"`
	TemplateID  string      `json:"template_id"`
	Status      QuestStatus `json:"status"`
	Objectives  []Objective `json:"objectives"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt *time.Time  `json:"completed_at"`
}

func (q *QuestTemplate) normalize() {
	if q.Objectives == nil {
		q.Objectives = []Objective{}
	}
	if q.Rewards == nil {
		q.Rewards = map[string]any{}
	}
}

func (q *QuestInstance) normalize() {
	if !q.Status.Valid() {
		q.Status = QuestActive
	}
	if q.Objectives == nil {
		q.Objectives = []Objective{}
	}
}
