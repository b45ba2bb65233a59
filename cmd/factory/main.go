// Command factory solves a production-planning linear program: recipe
// activity levels and machine counts to meet a demanded output rate subject
// to raw-material supply and per-machine-class capacity.
//
// It reads a single JSON request object from stdin and writes a single JSON
// response object to stdout, with map keys sorted ascending. Exit code 0
// covers both a successful solve and a correctly-determined infeasible
// result; a non-zero exit means the request was malformed or the LP backend
// itself could not reach a verdict, with a human-readable message on
// stderr.
//
//	$ factory < request.json > response.json
package main

import (
	"encoding/json"
	"io"
	"os"

	"foundry/internal/factory"
	"foundry/pkg/apperror"
	"foundry/pkg/config"
	"foundry/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadWithBinaryDefaults("factory")
	if err != nil {
		logger.InitWithConfig(logger.Config{Level: "error", Output: "stderr"})
		logger.Error("failed to load configuration", "error", err)
		return 1
	}
	logger.InitWithConfig(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: "stderr",
	})

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		logger.Error("failed to read request", "error", err)
		return 1
	}

	var req factory.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		logger.Error("malformed request", "error", err)
		return 1
	}

	resp, err := factory.Solve(&req)
	if err != nil {
		logger.Error("solve failed", "error", err)
		return exitForCode(apperror.Code(err))
	}

	if err := emitSorted(os.Stdout, resp); err != nil {
		logger.Error("failed to write response", "error", err)
		return 1
	}
	return 0
}

func exitForCode(code apperror.ErrorCode) int {
	switch code {
	case apperror.CodeMalformedRequest:
		return 2
	case apperror.CodeUnsolvableCore:
		return 3
	default:
		return 1
	}
}

func emitSorted(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	return enc.Encode(generic)
}
