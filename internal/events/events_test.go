package events

import (
	"context"
	"testing"
)

func TestNoop_PublishDoesNotPanic(t *testing.T) {
	Noop{}.Publish(context.Background(), Event{Kind: DocumentUploaded, DocumentID: "doc-1"})
}
