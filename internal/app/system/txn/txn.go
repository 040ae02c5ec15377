// Package txn runs multi-collection writes inside a MongoDB transaction.
//
// Transactions need a replica set or sharded cluster. Development setups
// often run a standalone mongod; there Run logs a warning and executes the
// callback without a transaction so the app keeps working.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server error codes meaning "transactions are unavailable here".
var notSupportedCodes = map[int32]struct{}{
	20:  {}, // IllegalOperation: transaction numbers only allowed on replica set members
	51:  {}, // IllegalOperation variant seen on older servers
	263: {}, // OperationNotSupportedInTransaction
}

// Run executes fn inside a transaction on db's client. The ctx passed to fn
// carries the session; every collection call in fn must use it.
//
// When the deployment does not support transactions fn is executed once
// more, directly, with the caller's ctx. Callers that need all-or-nothing
// semantics on such servers must order their writes so that a failure
// part-way leaves no dangling references (delete children before parents).
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			warnFallback(log, err)
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		warnFallback(log, err)
		return fn(ctx)
	}
	return err
}

func warnFallback(log *zap.Logger, err error) {
	if log == nil {
		return
	}
	log.Warn("transactions not supported; running without transaction", zap.Error(err))
}

// IsNotSupported reports whether err means the server cannot run
// transactions (standalone mongod, unsupported command inside a
// transaction, and similar).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		if _, ok := notSupportedCodes[ce.Code]; ok {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	hasTxn := strings.Contains(msg, "transaction")
	switch {
	case hasTxn && strings.Contains(msg, "replica set"):
		return true
	case hasTxn && strings.Contains(msg, "session"):
		return true
	case hasTxn && strings.Contains(msg, "illegal operation"):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	}
	return false
}
