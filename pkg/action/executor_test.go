package action

import (
	"context"
	"testing"
)

func TestExecute_UnknownTypeFailsGracefullyNotAnError(t *testing.T) {
	res, err := Execute(context.Background(), &Handler{}, Plan{Type: "NotARealType"})
	if err != nil {
		t.Fatalf("unexpected error for unknown action type: %v", err)
	}
	if res.Success {
		t.Fatal("expected failure result for unknown action type")
	}
}

func TestHandlerClear_MissingElementFailsGracefullyNotAnError(t *testing.T) {
	h := NewHandler(nil)
	res, err := h.Clear("missing-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success {
		t.Fatal("expected failure result for missing element")
	}
}
