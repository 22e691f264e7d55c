package api

import (
	"io"
	"log/slog"

	"github.com/verilens/verilens/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
