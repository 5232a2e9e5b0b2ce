// Package handlers provides the built-in example handlers registered by the
// CLI worker. Real deployments register their own capabilities through
// core.Registry.
package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Pavitra-A/queuectl/core"
	"github.com/Pavitra-A/queuectl/job"
)

// ErrSimulatedFailure is returned by PrintMessage when the payload asks for a
// failure, useful for exercising retries and the DLQ end to end.
var ErrSimulatedFailure = errors.New("simulated failure in print_message handler")

// PrintMessage prints the payload's msg field. A payload of {"fail": true}
// forces a failure.
func PrintMessage(ctx context.Context, payload job.Document) error {
	if fail, ok := payload["fail"].(bool); ok && fail {
		return ErrSimulatedFailure
	}

	msg, ok := payload["msg"].(string)
	if !ok {
		msg = "<no message>"
	}
	fmt.Printf("[print_message] %s\n", msg)
	return nil
}

// Echo prints the whole payload document.
func Echo(ctx context.Context, payload job.Document) error {
	fmt.Printf("[echo] %v\n", payload)
	return nil
}

// RegisterBuiltins registers the built-in handlers on a registry
func RegisterBuiltins(registry core.Registry) error {
	if err := registry.Register("print_message", PrintMessage); err != nil {
		return err
	}
	return registry.Register("echo", Echo)
}
