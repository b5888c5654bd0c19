package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
)

func TestTimeLogsRequestIDAndError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	ctx := WithRequestID(context.Background(), "abc123")
	err := errors.New("boom")
	Time(ctx, "solve")(&err)

	out := buf.String()
	for _, want := range []string{"req_id=abc123", "op=solve", "err=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q does not contain %q", out, want)
		}
	}
}

func TestRequestIDDefault(t *testing.T) {
	if got := RequestID(context.Background()); got != "-" {
		t.Fatalf("RequestID = %q, want %q", got, "-")
	}
}
