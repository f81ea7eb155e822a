package translate

import (
	"context"

	"audio-translator/internal/domain/repositories"
	"audio-translator/internal/infrastructure/transient"

	"github.com/aws/aws-sdk-go-v2/aws"
	awstranslate "github.com/aws/aws-sdk-go-v2/service/translate"
)

type translateAPI interface {
	TranslateText(ctx context.Context, params *awstranslate.TranslateTextInput, optFns ...func(*awstranslate.Options)) (*awstranslate.TranslateTextOutput, error)
}

// AWSTranslator translates text with Amazon Translate.
type AWSTranslator struct {
	client translateAPI
}

var _ repositories.Translator = (*AWSTranslator)(nil)

func NewAWSTranslator(cfg aws.Config) *AWSTranslator {
	return &AWSTranslator{client: awstranslate.NewFromConfig(cfg)}
}

func (a *AWSTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	out, err := a.client.TranslateText(ctx, &awstranslate.TranslateTextInput{
		Text:               aws.String(text),
		SourceLanguageCode: aws.String(sourceLang),
		TargetLanguageCode: aws.String(targetLang),
	})
	if err != nil {
		return "", transient.Classify("translate text", err)
	}
	return aws.ToString(out.TranslatedText), nil
}
