// Package transient decides which provider failures are worth another attempt.
package transient

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"audio-translator/pkg/errors"

	smithyhttp "github.com/aws/smithy-go/transport/http"
	openai "github.com/sashabaranov/go-openai"
)

// Classify wraps err as a transient_network PipelineError when it is a network
// failure or a throttling/5xx response from AWS or OpenAI. Other errors are
// returned wrapped with op. PipelineErrors pass through untouched.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *errors.PipelineError
	if stderrors.As(err, &pe) {
		return err
	}
	if IsTransient(err) {
		return errors.ErrTransientNetwork(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var respErr *smithyhttp.ResponseError
	if stderrors.As(err, &respErr) {
		return retryableStatus(respErr.HTTPStatusCode())
	}

	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if stderrors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	return isNetworkFailure(err)
}

// isNetworkFailure looks past *url.Error, which satisfies net.Error for any
// client failure, and only accepts transport-level causes.
func isNetworkFailure(err error) bool {
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		err = urlErr.Err
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) || stderrors.Is(err, io.EOF) {
		return true
	}
	var opErr *net.OpError
	if stderrors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if stderrors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		if _, ok := netErr.(*url.Error); ok {
			return false
		}
		return netErr.Timeout()
	}
	return false
}

// RetryableStatus reports whether an HTTP status code signals a transient condition.
func RetryableStatus(code int) bool {
	return retryableStatus(code)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500
}
