// Package queuectl is a durable, single-node background job queue. Callers
// enqueue typed work items with a JSON payload; workers claim ready items,
// dispatch them to registered handlers, and record the outcome. Failures are
// retried with exponential backoff until a configured attempt limit, then
// routed to a dead-letter queue for inspection and replay.
//
// Jobs are persisted in a relational store (SQLite by default, Postgres
// optional). All worker coordination happens through the store's atomic
// claim, so any number of worker processes can share one database.
//
// # Example
//
//	package main
//
//	import (
//		"context"
//
//		"github.com/Pavitra-A/queuectl"
//		"github.com/Pavitra-A/queuectl/job"
//	)
//
//	func main() {
//		engine := queuectl.New(queuectl.DefaultOptions())
//
//		engine.Register("email", func(ctx context.Context, payload job.Document) error {
//			return sendEmail(payload)
//		})
//
//		// Blocks until SIGINT/SIGTERM.
//		if err := engine.Run(context.Background()); err != nil {
//			panic(err)
//		}
//	}
//
// Use the queuectl CLI (cmd/queuectl) for operator tasks: enqueueing,
// listing, inspecting the DLQ, and retrying dead-lettered jobs.
package queuectl
