package main

import "testing"

// TestRunReturnsExitCodeOnBadConfig verifies setup failures come back as an
// exit code instead of terminating the process.
func TestRunReturnsExitCodeOnBadConfig(t *testing.T) {
	t.Setenv("S3_BUCKET_PROD", "")
	t.Setenv("S3_BUCKET_BETA", "")
	t.Setenv("LOG_LEVEL", "error")

	if code := run(); code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}
}
