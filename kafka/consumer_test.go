package kafka

import (
	"context"
	"fmt"
	"testing"

	"github.com/GOMDJ/shorts-art/types"
)

func TestTypedHandlerProcessesValidMessage(t *testing.T) {
	var got *types.RenderRequest
	handler := &TypedMessageHandler[types.RenderRequest]{
		Validate: func(msg *types.RenderRequest) bool { return msg.Validate() == nil },
		Process: func(ctx context.Context, msg *types.RenderRequest) error {
			got = msg
			return nil
		},
		AlwaysMark: true,
	}

	payload := []byte(`{"run_id":"r1","title":"Starry Night","image_url":"https://example.test/sn.jpg"}`)
	mark, err := handler.HandleMessage(context.Background(), payload)
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}
	if !mark {
		t.Error("successful message not marked")
	}
	if got == nil || got.Title != "Starry Night" {
		t.Fatalf("processed message = %+v", got)
	}
}

func TestTypedHandlerMarksUndecodableMessage(t *testing.T) {
	handler := &TypedMessageHandler[types.RenderRequest]{
		Process:    func(ctx context.Context, msg *types.RenderRequest) error { return nil },
		AlwaysMark: true,
	}

	mark, err := handler.HandleMessage(context.Background(), []byte("not json"))
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if !mark {
		t.Error("undecodable message should be marked to avoid a retry loop")
	}
}

func TestTypedHandlerSkipsInvalidMessage(t *testing.T) {
	processed := false
	handler := &TypedMessageHandler[types.RenderRequest]{
		Validate: func(msg *types.RenderRequest) bool { return msg.Validate() == nil },
		Process: func(ctx context.Context, msg *types.RenderRequest) error {
			processed = true
			return nil
		},
	}

	// Valid JSON, but missing image_url.
	mark, err := handler.HandleMessage(context.Background(), []byte(`{"title":"No Image"}`))
	if err != nil {
		t.Fatalf("HandleMessage returned error: %v", err)
	}
	if mark {
		t.Error("invalid message marked without AlwaysMark")
	}
	if processed {
		t.Error("invalid message reached Process")
	}
}

func TestTypedHandlerLeavesFailedMessageUnmarked(t *testing.T) {
	handler := &TypedMessageHandler[types.RenderRequest]{
		Process: func(ctx context.Context, msg *types.RenderRequest) error {
			return fmt.Errorf("transient failure")
		},
		AlwaysMark: true,
	}

	mark, err := handler.HandleMessage(context.Background(), []byte(`{"title":"t","image_url":"u"}`))
	if err == nil {
		t.Fatal("expected the processing error to surface")
	}
	if mark {
		t.Error("failed message must stay unmarked for retry")
	}
}
