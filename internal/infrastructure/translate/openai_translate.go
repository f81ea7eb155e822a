package translate

import (
	"context"
	"fmt"
	"strings"

	"audio-translator/internal/domain/repositories"
	"audio-translator/internal/infrastructure/transient"

	openai "github.com/sashabaranov/go-openai"
)

type chatAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

const translatePrompt = "You are a translation engine. Translate the user's text from %s to %s. " +
	"Reply with the translation only, without quotes, notes or explanations."

// OpenAITranslator translates text with a chat completion model.
type OpenAITranslator struct {
	client chatAPI
	model  string
}

var _ repositories.Translator = (*OpenAITranslator)(nil)

func NewOpenAITranslator(apiKey, model string) *OpenAITranslator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAITranslator{client: openai.NewClient(apiKey), model: model}
}

func (o *OpenAITranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(translatePrompt, sourceLang, targetLang)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", transient.Classify("openai translate", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai translate: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
