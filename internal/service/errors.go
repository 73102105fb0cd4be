package service

import "chonkit/internal/apperr"

func errConfig(reason string) error {
	return apperr.New(apperr.ConfigError, reason)
}

func errInconsistent(reason string) error {
	return apperr.New(apperr.Inconsistent, reason)
}

// shouldRetryUpstream distinguishes transient upstream failures (retried by
// internal/retry) from permanent ones (config errors, bad input) that
// should fail fast.
func shouldRetryUpstream(err error) bool {
	kind, ok := apperr.KindOf(err)
	if !ok {
		return true
	}
	switch kind {
	case apperr.EmbedError, apperr.VectorStoreError:
		return true
	default:
		return false
	}
}
