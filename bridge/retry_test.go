package bridge

import (
	"context"
	"testing"
	"time"
)

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	res := WithRetry(t.Context(), RetryConfig{Retries: 3, BaseDelay: time.Millisecond}, func(ctx context.Context) Result {
		calls++
		if calls < 3 {
			return Fail(ModeMock, CodeMockFailure, "transient")
		}
		return Ok(ModeMock, "value", "")
	})

	if !res.Success {
		t.Fatalf("expected eventual success, got %q", res.Error)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetry_ReturnsLastFailure(t *testing.T) {
	calls := 0
	res := WithRetry(t.Context(), RetryConfig{Retries: 2, BaseDelay: time.Millisecond}, func(ctx context.Context) Result {
		calls++
		return Fail(ModeMock, "SOME_CODE", "still down")
	})

	if res.Success {
		t.Fatal("expected failure after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", calls)
	}
	if res.ErrorCode != "SOME_CODE" {
		t.Errorf("ErrorCode = %q, want SOME_CODE", res.ErrorCode)
	}
}

func TestWithRetry_NoRetryOnFirstSuccess(t *testing.T) {
	calls := 0
	res := WithRetry(t.Context(), DefaultRetryConfig(), func(ctx context.Context) Result {
		calls++
		return Ok(ModeReal, nil, "ok")
	})

	if !res.Success || calls != 1 {
		t.Errorf("success = %v, calls = %d; want true, 1", res.Success, calls)
	}
}

func TestWithRetry_ContextCanceledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	calls := 0
	res := WithRetry(ctx, DefaultRetryConfig(), func(ctx context.Context) Result {
		calls++
		return Ok(ModeMock, nil, "")
	})

	if res.Success {
		t.Fatal("expected failure for canceled context")
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestWithRetry_ContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())

	calls := 0
	start := time.Now()
	res := WithRetry(ctx, RetryConfig{Retries: 5, BaseDelay: time.Hour}, func(ctx context.Context) Result {
		calls++
		cancel()
		return Fail(ModeMock, CodeMockFailure, "down")
	})

	if time.Since(start) > time.Minute {
		t.Fatal("retry did not honor cancellation during backoff")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if res.Success {
		t.Error("expected last failure result")
	}
}

func TestFail_DefaultsCodeByMode(t *testing.T) {
	if res := Fail(ModeReal, "", "boom"); res.ErrorCode != CodeRealServerError {
		t.Errorf("real default code = %q", res.ErrorCode)
	}
	if res := Fail(ModeMock, "", "boom"); res.ErrorCode != CodeMockFailure {
		t.Errorf("mock default code = %q", res.ErrorCode)
	}
	if res := Fail(ModeMock, "X", ""); res.Error != "X" {
		t.Errorf("empty message should fall back to code, got %q", res.Error)
	}
}

func TestAdopt_FailedMapGetsErrorMessage(t *testing.T) {
	res := adopt(map[string]any{"success": false}, ModeMock)
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error == "" {
		t.Error("failed envelope must carry a non-empty error")
	}
}

func TestAdopt_PlainValueBecomesData(t *testing.T) {
	res := adopt(42, ModeReal)
	if !res.Success {
		t.Fatal("expected success")
	}
	if res.Data != 42 {
		t.Errorf("Data = %v, want 42", res.Data)
	}
	if res.Mode != ModeReal {
		t.Errorf("Mode = %q, want real", res.Mode)
	}
}

func TestAdopt_ResultPassthroughOverwritesMode(t *testing.T) {
	inner := Ok(ModeReal, "payload", "hello")
	res := adopt(inner, ModeMock)
	if res.Mode != ModeMock {
		t.Errorf("Mode = %q, want mock (path taken wins)", res.Mode)
	}
	if res.Data != "payload" || res.Message != "hello" {
		t.Errorf("payload lost: %#v", res)
	}
}
