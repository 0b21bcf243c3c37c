package apperror

import (
	"errors"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGRPCStatusMapping(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want codes.Code
	}{
		{CodeUnknownPipeline, codes.InvalidArgument},
		{CodeEmptyPipeline, codes.InvalidArgument},
		{CodeInvalidTimeSpec, codes.InvalidArgument},
		{CodeInvalidSpaceSpec, codes.InvalidArgument},
		{CodeUnprovidedCheck, codes.InvalidArgument},
		{CodeUnknownDataSource, codes.NotFound},
		{CodeKernelFailure, codes.Aborted},
		{CodeUnknownFlag, codes.Aborted},
		{CodeInvalidTestName, codes.Aborted},
		{CodeFetchIO, codes.Internal},
		{CodeInvalidCache, codes.Internal},
		{CodeInternal, codes.Internal},
		{CodeUnimplemented, codes.Unimplemented},
	}

	for _, tt := range tests {
		got := New(tt.code, "boom").GRPCStatus().Code()
		if got != tt.want {
			t.Errorf("%s maps to %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestErrorPreservesCauseChain(t *testing.T) {
	inner := errors.New("connection refused")
	err := Wrap(inner, CodeFetchIO, "fetching data from frost")

	if !errors.Is(err, inner) {
		t.Error("wrapped cause lost from chain")
	}
	msg := err.Error()
	if !strings.Contains(msg, "connection refused") {
		t.Errorf("message %q does not preserve the inner cause", msg)
	}
}

func TestToGRPC(t *testing.T) {
	st, ok := status.FromError(ToGRPC(New(CodeUnknownDataSource, "nope")))
	if !ok || st.Code() != codes.NotFound {
		t.Errorf("app error mapped to %v, want NotFound", st.Code())
	}

	// Already a status error: passed through.
	orig := status.Error(codes.AlreadyExists, "x")
	if ToGRPC(orig) != orig {
		t.Error("existing status error should pass through")
	}

	// Unknown error: internal.
	st, _ = status.FromError(ToGRPC(errors.New("mystery")))
	if st.Code() != codes.Internal {
		t.Errorf("plain error mapped to %v, want Internal", st.Code())
	}

	if ToGRPC(nil) != nil {
		t.Error("nil should stay nil")
	}
}

func TestIsAndCode(t *testing.T) {
	err := Newf(CodeUnknownPipeline, "pipeline %q", "x")
	if !Is(err, CodeUnknownPipeline) {
		t.Error("Is failed on matching code")
	}
	if Is(err, CodeInternal) {
		t.Error("Is matched wrong code")
	}
	if Code(errors.New("plain")) != CodeInternal {
		t.Error("plain errors should report CodeInternal")
	}
}
