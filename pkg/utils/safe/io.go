package safe

import (
	"context"
	"io"

	"github.com/secmon-lab/taskhub/pkg/utils/logging"
)

// Close releases a named resource, logging instead of returning the error. Nil
// closers are ignored.
func Close(ctx context.Context, name string, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("failed to close "+name, "error", err.Error())
	}
}

// Write sends data to w, logging the error and the number of bytes written on failure
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	n, err := w.Write(data)
	if err != nil {
		logging.From(ctx).Error("failed to write", "error", err.Error(), "written", n, "size", len(data))
	}
}
