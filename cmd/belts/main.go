// Command belts solves a transport-network feasibility / maximum-flow
// problem with edge lower bounds and node throughput caps.
//
// It reads a single JSON request object from stdin and writes a single JSON
// response object to stdout, with map keys sorted ascending. Exit code 0
// covers both a successful solve and a correctly-determined infeasible
// result; a non-zero exit means the request was malformed or the solver
// core itself could not reach a verdict, with a human-readable message on
// stderr.
//
//	$ belts < request.json > response.json
//
// Configuration (app identity, log level/format) is read the same way as
// every binary in this module: defaults, then an optional config.yaml, then
// FOUNDRY_-prefixed environment variables. Logs always go to stderr.
package main

import (
	"encoding/json"
	"io"
	"os"

	"foundry/internal/belts"
	"foundry/pkg/apperror"
	"foundry/pkg/config"
	"foundry/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadWithBinaryDefaults("belts")
	if err != nil {
		return exitConfigError(err)
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

	var req belts.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		logger.Error("malformed request", "error", err)
		return 1
	}

	resp, err := belts.Solve(&req)
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

func exitConfigError(err error) int {
	logger.InitWithConfig(logger.Config{Level: "error", Output: "stderr"})
	logger.Error("failed to load configuration", "error", err)
	return 1
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

// emitSorted marshals v through a generic map so encoding/json's ascending
// key sort applies, then writes it followed by a newline.
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
