package speech

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"audio-translator/internal/domain/entities"
	"audio-translator/internal/domain/repositories"
	"audio-translator/internal/infrastructure/transient"
	"audio-translator/pkg/errors"
	"audio-translator/pkg/file"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
)

type transcribeAPI interface {
	StartTranscriptionJob(ctx context.Context, params *transcribe.StartTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.StartTranscriptionJobOutput, error)
	GetTranscriptionJob(ctx context.Context, params *transcribe.GetTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.GetTranscriptionJobOutput, error)
}

// AWSTranscriber runs Amazon Transcribe batch jobs. With LocatorStorage the
// result document is delivered into the request's output bucket; with
// LocatorURI the service keeps it and hands back a presigned URI.
type AWSTranscriber struct {
	client   transcribeAPI
	delivery entities.LocatorKind
}

var _ repositories.TranscriptionService = (*AWSTranscriber)(nil)

func NewAWSTranscriber(cfg aws.Config, delivery entities.LocatorKind) *AWSTranscriber {
	return &AWSTranscriber{client: transcribe.NewFromConfig(cfg), delivery: delivery}
}

func (t *AWSTranscriber) Submit(ctx context.Context, req repositories.TranscriptionRequest) (string, error) {
	in := &transcribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(req.JobName),
		Media:                &types.Media{MediaFileUri: aws.String(req.Audio.String())},
		MediaFormat:          types.MediaFormatMp3,
		LanguageCode:         types.LanguageCode(req.LanguageCode),
	}
	if t.delivery == entities.LocatorStorage {
		if req.OutputNamespace == "" {
			return "", errors.ErrConfiguration("storage delivery needs an output bucket")
		}
		in.OutputBucketName = aws.String(req.OutputNamespace)
		key := req.OutputKey
		if key == "" {
			key = file.JobResultKey(req.JobName)
		}
		in.OutputKey = aws.String(key)
	}

	out, err := t.client.StartTranscriptionJob(ctx, in)
	if err != nil {
		return "", transient.Classify("start transcription job "+req.JobName, err)
	}
	if out.TranscriptionJob != nil && out.TranscriptionJob.TranscriptionJobName != nil {
		return aws.ToString(out.TranscriptionJob.TranscriptionJobName), nil
	}
	return req.JobName, nil
}

func (t *AWSTranscriber) Status(ctx context.Context, jobName string) (entities.Job, error) {
	out, err := t.client.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
	})
	if err != nil {
		return entities.Job{}, transient.Classify("get transcription job "+jobName, err)
	}
	if out.TranscriptionJob == nil {
		return entities.Job{}, errors.ErrMalformedResult("status response has no job", nil)
	}

	tj := out.TranscriptionJob
	job := entities.Job{
		Name:          jobName,
		Status:        mapStatus(tj.TranscriptionJobStatus),
		FailureReason: aws.ToString(tj.FailureReason),
	}
	if tj.CreationTime != nil {
		job.SubmittedAt = *tj.CreationTime
	}
	if job.Status != entities.JobStatusCompleted {
		return job, nil
	}

	var uri string
	if tj.Transcript != nil {
		uri = aws.ToString(tj.Transcript.TranscriptFileUri)
	}
	locator, err := t.locate(jobName, uri)
	if err != nil {
		return entities.Job{}, err
	}
	job.Result = locator
	return job, nil
}

func (t *AWSTranscriber) locate(jobName, uri string) (entities.ResultLocator, error) {
	if t.delivery == entities.LocatorURI {
		if uri == "" {
			return entities.ResultLocator{}, errors.ErrMalformedResult("completed job "+jobName+" has no transcript URI", nil)
		}
		return entities.ResultLocator{Kind: entities.LocatorURI, URI: uri}, nil
	}
	bucket, key, err := ParseObjectURI(uri)
	if err != nil {
		return entities.ResultLocator{}, errors.ErrMalformedResult("completed job "+jobName+" has unusable transcript location", err)
	}
	return entities.ResultLocator{Kind: entities.LocatorStorage, Namespace: bucket, Key: key, URI: uri}, nil
}

func mapStatus(s types.TranscriptionJobStatus) entities.JobStatus {
	switch s {
	case types.TranscriptionJobStatusCompleted:
		return entities.JobStatusCompleted
	case types.TranscriptionJobStatusFailed:
		return entities.JobStatusFailed
	case types.TranscriptionJobStatusQueued, types.TranscriptionJobStatusInProgress:
		return entities.JobStatusInProgress
	default:
		return entities.JobStatusSubmitted
	}
}

// ParseObjectURI splits an S3 object location into bucket and key. It accepts
// s3://bucket/key, path-style https://s3.<region>.amazonaws.com/bucket/key and
// virtual-hosted https://bucket.s3.<region>.amazonaws.com/key.
func ParseObjectURI(raw string) (bucket, key string, err error) {
	if raw == "" {
		return "", "", fmt.Errorf("empty object URI")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse %q: %w", raw, err)
	}

	path := strings.TrimPrefix(u.Path, "/")
	switch {
	case u.Scheme == "s3":
		bucket, key = u.Host, path
	case strings.HasPrefix(u.Host, "s3.") || strings.HasPrefix(u.Host, "s3-") || u.Host == "s3.amazonaws.com":
		bucket, key, _ = strings.Cut(path, "/")
	case strings.Contains(u.Host, ".s3.") || strings.Contains(u.Host, ".s3-"):
		bucket = u.Host[:strings.Index(u.Host, ".s3")]
		key = path
	default:
		return "", "", fmt.Errorf("%q is not an S3 location", raw)
	}

	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%q has no bucket or key", raw)
	}
	if unescaped, uerr := url.PathUnescape(key); uerr == nil {
		key = unescaped
	}
	return bucket, key, nil
}
