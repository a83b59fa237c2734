// Package txn runs multi-document writes in a MongoDB transaction when the
// deployment supports one, and sequentially when it does not.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server error codes returned when transactions are unavailable.
const (
	codeIllegalOperation          = 20
	codeNoReplicationEnabled      = 51
	codeOperationNotSupportedInTx = 263
)

// IsNotSupported reports whether err means the server cannot run
// transactions (standalone mongod, or an engine without session support).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case codeIllegalOperation, codeNoReplicationEnabled, codeOperationNotSupportedInTx:
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") &&
		(strings.Contains(msg, "replica set") ||
			strings.Contains(msg, "session") ||
			strings.Contains(msg, "illegal operation")) {
		return true
	}
	return strings.Contains(msg, "session") && strings.Contains(msg, "not supported")
}

// Run executes fn inside a transaction on client. If the deployment cannot
// run transactions, fn is executed once more without one.
//
// fn must be safe to retry: the driver may re-invoke it on transient errors.
func Run(ctx context.Context, client *mongo.Client, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		if log != nil {
			log.Debug("transactions unavailable; running sequentially", zap.Error(err))
		}
		return fn(ctx)
	}
	return err
}
