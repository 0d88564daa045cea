package services

import (
	"time"

	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/models"
)

// EnsureQuestNotDuplicated allows at most one active instance per template.
func EnsureQuestNotDuplicated(active []models.QuestInstance, templateID string) error {
	for _, q := range active {
		if q.TemplateID == templateID && q.Status == models.QuestActive {
			return apperrors.NewQuestError("Quest template already active; cannot duplicate")
		}
	}
	return nil
}

// StartQuest instantiates tpl with its own copy of the objectives.
func StartQuest(id string, tpl models.QuestTemplate, now time.Time) models.QuestInstance {
	return models.QuestInstance{
		ID:         id,
		TemplateID: tpl.ID,
		Status:     models.QuestActive,
		Objectives: models.CloneObjectives(tpl.Objectives),
		StartedAt:  now,
	}
}

// SetQuestStatus moves q to status. Entering completed or failed stamps
// CompletedAt; other transitions leave it as it was.
func SetQuestStatus(q *models.QuestInstance, status models.QuestStatus, now time.Time) {
	q.Status = status
	if status.Terminal() {
		t := now
		q.CompletedAt = &t
	}
}

// ChooseMessageOption records the player's answer. The choice is final.
func ChooseMessageOption(msg *models.SystemMessage, optionID string) error {
	if !msg.IsChoice() {
		return apperrors.NewDomainError("Not a choice message")
	}
	if msg.ChosenOptionID != nil {
		return apperrors.NewDomainError("Choice already made")
	}
	if !msg.HasOption(optionID) {
		return apperrors.NewDomainError("Unknown choice option")
	}
	chosen := optionID
	msg.ChosenOptionID = &chosen
	return nil
}
