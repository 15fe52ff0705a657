// Package aigen generates authoring-format question banks with OpenAI. It is
// an optional collaborator: the quiz core never requires it, and it only
// activates when an API key is configured.
package aigen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"quizgen/internal/quiz"
)

const systemPrompt = "You are an expert quiz author. Generate questions in the requested JSON shape: " +
	"each question has exactly 4 choices for multiple choice or exactly 2 choices for true/false, " +
	"an answer index into the choices, and a brief explanation."

// Maker turns a topic or pasted source text into a question bank.
type Maker struct {
	client *openai.Client
	model  string
}

func NewMaker(apiKey string) *Maker {
	return &Maker{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

// Generate asks the model for count questions and validates the result
// against the authoring contract before returning it.
func (m *Maker) Generate(ctx context.Context, topic, sourceText string, count int) ([]quiz.Question, error) {
	if count <= 0 {
		count = 10
	}

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(topic, sourceText, count)},
		},
		Tools: []openai.Tool{
			{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        "submit_questions",
					Description: "Submit the generated quiz questions",
					Parameters: map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"questions": map[string]interface{}{
								"type": "array",
								"items": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"question": map[string]interface{}{
											"type":        "string",
											"description": "The question text",
										},
										"choices": map[string]interface{}{
											"type":        "array",
											"items":       map[string]interface{}{"type": "string"},
											"description": "Exactly 4 choices, or exactly 2 for true/false",
										},
										"answer": map[string]interface{}{
											"type":        "integer",
											"description": "0-based index of the correct choice",
										},
										"explanation": map[string]interface{}{
											"type":        "string",
											"description": "Brief explanation of the correct answer",
										},
									},
									"required": []string{"question", "choices", "answer"},
								},
							},
						},
						"required": []string{"questions"},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("model returned no choices")
	}
	message := resp.Choices[0].Message
	if len(message.ToolCalls) == 0 {
		return nil, errors.New("model did not call submit_questions")
	}

	questions, err := parseToolArguments([]byte(message.ToolCalls[0].Function.Arguments))
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func buildPrompt(topic, sourceText string, count int) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Generate %d quiz questions", count)
	if topic != "" {
		fmt.Fprintf(&builder, " about: %s", topic)
	}
	builder.WriteString(".\n")
	builder.WriteString("Call submit_questions with the result. Mix difficulties and avoid duplicates.\n")
	if sourceText != "" {
		builder.WriteString("\nBase every question on this source material:\n\n")
		builder.WriteString(sourceText)
	}
	return builder.String()
}

func parseToolArguments(raw []byte) ([]quiz.Question, error) {
	var payload struct {
		Questions []quiz.Question `json:"questions"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("malformed submit_questions arguments: %w", err)
	}
	if err := quiz.ValidateQuestions(payload.Questions); err != nil {
		return nil, fmt.Errorf("model produced an invalid bank: %w", err)
	}
	return payload.Questions, nil
}
