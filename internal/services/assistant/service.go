// Package assistant answers finance questions through the Gemini API with
// the user's own data embedded in the prompt.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/zenithfin/zenith/internal/common"
	"github.com/zenithfin/zenith/internal/interfaces"
	"github.com/zenithfin/zenith/internal/models"
)

// maxHistory bounds the persisted conversation; older turns are dropped.
const maxHistory = 50

// Service implements the assistant service. Each chat turn rebuilds the
// context prompt from the latest persisted data, so the model always sees
// current balances rather than whatever was true when the conversation began.
type Service struct {
	client interfaces.AssistantClient
	store  interfaces.DataStore
	logger *common.Logger
}

// NewService creates an assistant service
func NewService(client interfaces.AssistantClient, store interfaces.DataStore, logger *common.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		logger: logger,
	}
}

// Chat sends a message with the user's financial context and records both
// turns in the history.
func (s *Service) Chat(ctx context.Context, userID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("message is required")
	}
	if s.client == nil {
		return "", fmt.Errorf("assistant is not configured: missing Gemini API key")
	}

	data, err := s.store.LoadData(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user data: %w", err)
	}
	if data == nil {
		data = models.NewAppData()
	}

	prompt := buildPrompt(data, message)
	reply, err := s.client.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}

	err = s.store.Update(ctx, userID, func(data *models.AppData) error {
		data.ChatHistory = append(data.ChatHistory,
			models.ChatMessage{Role: "user", Text: message},
			models.ChatMessage{Role: "model", Text: reply},
		)
		if len(data.ChatHistory) > maxHistory {
			data.ChatHistory = data.ChatHistory[len(data.ChatHistory)-maxHistory:]
		}
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist chat history")
	}

	return reply, nil
}

// History returns the persisted conversation.
func (s *Service) History(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	data, err := s.store.LoadData(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user data: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	return data.ChatHistory, nil
}

// buildPrompt embeds a snapshot of the user's finances ahead of the question.
func buildPrompt(data *models.AppData, message string) string {
	var sb strings.Builder
	sb.WriteString("You are a personal finance assistant. Answer using the user's data below. Be concise and practical.\n\n")

	if data.UserProfile.Name != "" {
		fmt.Fprintf(&sb, "User: %s", data.UserProfile.Name)
		if data.UserProfile.Age > 0 {
			fmt.Fprintf(&sb, ", age %d", data.UserProfile.Age)
		}
		sb.WriteString("\n")
	}

	var income, expenses float64
	for _, t := range data.Transactions {
		switch t.Type {
		case models.TransactionIncome:
			income += t.Amount
		case models.TransactionExpense:
			expenses += t.Amount
		}
	}
	fmt.Fprintf(&sb, "Recorded income: %.2f, expenses: %.2f (%d transactions)\n", income, expenses, len(data.Transactions))

	if len(data.Holdings) > 0 {
		var invested, current float64
		for _, h := range data.Holdings {
			invested += h.InvestedValue()
			current += h.CurrentValue()
		}
		fmt.Fprintf(&sb, "Portfolio: %d holdings, invested %.2f, current value %.2f\n", len(data.Holdings), invested, current)
		for _, h := range data.Holdings {
			fmt.Fprintf(&sb, "- %s (%s): qty %g, value %.2f\n", h.Name, h.Type, h.Quantity, h.CurrentValue())
		}
	}

	for _, d := range data.Debts {
		fmt.Fprintf(&sb, "Debt: %s, remaining %.2f of %.2f\n", d.Name, d.TotalAmount-d.AmountPaid, d.TotalAmount)
	}
	for _, g := range data.Goals {
		fmt.Fprintf(&sb, "Goal: %s, saved %.2f of %.2f\n", g.Name, g.SavedAmount, g.TargetAmount)
	}

	sb.WriteString("\nQuestion: ")
	sb.WriteString(message)
	return sb.String()
}

var _ interfaces.AssistantService = (*Service)(nil)
