package grading

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/lshigami/mockexam/internal/apperror"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

// ClassifyProviderError maps a provider failure onto a grading category.
// Errors that already carry a category pass through unchanged.
func ClassifyProviderError(err error) *apperror.GradingError {
	var ge *apperror.GradingError
	if errors.As(err, &ge) {
		return ge
	}
	return &apperror.GradingError{Category: categorize(err), Err: err}
}

func categorize(err error) apperror.GradingCategory {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperror.GradingTimeout
	}

	if isCertificateError(err) {
		return apperror.GradingCertificate
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if cat, ok := categorizeStatus(apiErr.HTTPStatusCode); ok {
			return cat
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if cat, ok := categorizeStatus(reqErr.HTTPStatusCode); ok {
			return cat
		}
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if cat, ok := categorizeStatus(gErr.Code); ok {
			return cat
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperror.GradingTimeout
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return apperror.GradingConnection
	}

	return categorizeMessage(strings.ToLower(err.Error()))
}

func isCertificateError(err error) bool {
	var unknownAuthority x509.UnknownAuthorityError
	var hostname x509.HostnameError
	var invalid x509.CertificateInvalidError
	var verification *tls.CertificateVerificationError
	return errors.As(err, &unknownAuthority) || errors.As(err, &hostname) ||
		errors.As(err, &invalid) || errors.As(err, &verification)
}

func categorizeStatus(code int) (apperror.GradingCategory, bool) {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return apperror.GradingAuth, true
	case code == http.StatusTooManyRequests:
		return apperror.GradingQuota, true
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return apperror.GradingTimeout, true
	case code >= 500:
		return apperror.GradingProvider, true
	}
	return "", false
}

// categorizeMessage is the last resort for SDKs that only return text.
func categorizeMessage(msg string) apperror.GradingCategory {
	switch {
	case containsAny(msg, "api key", "api_key", "unauthenticated", "permission denied", "unauthorized"):
		return apperror.GradingAuth
	case containsAny(msg, "quota", "resource exhausted", "resource_exhausted", "rate limit"):
		return apperror.GradingQuota
	case containsAny(msg, "x509", "certificate"):
		return apperror.GradingCertificate
	case containsAny(msg, "timeout", "timed out", "deadline exceeded"):
		return apperror.GradingTimeout
	case containsAny(msg, "connection refused", "connection reset", "no such host", "broken pipe", "unexpected eof"):
		return apperror.GradingConnection
	}
	return apperror.GradingProvider
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
