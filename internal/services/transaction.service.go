package services

import (
	"context"
	"fmt"

	appContext "hotelparadise/internal/context"
	"hotelparadise/internal/database"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// TransactionService runs units of work inside a database transaction. A call
// made while another transaction is already carried by ctx joins it instead
// of opening a second one.
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute commits when fn returns nil and rolls back otherwise. Hooks
// registered with AfterCommit run once the commit succeeds. A panic inside fn
// is rolled back and returned as an error; a failed rollback after a panic
// re-panics.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	log := ts.log.Function("Execute").TraceFromContext(ctx)

	if outer, ok := appContext.GetTransaction(ctx); ok {
		return fn(ctx, outer)
	}

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			panicErr := log.ErrMsg("panic during transaction: " + fmt.Sprintf("%v", r))

			if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
				log.Er("CRITICAL: failed to rollback after panic", rollbackErr, "panic", r)
				panic(
					fmt.Sprintf(
						"transaction rollback failed: %v (original panic: %v)",
						rollbackErr,
						r,
					),
				)
			}

			err = panicErr
		}
	}()

	txCtx, runHooks := appContext.WithCommitHooks(appContext.WithTransaction(ctx, tx))

	if err = fn(txCtx, tx); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Er("CRITICAL: failed to rollback after function error", rollbackErr, "originalError", err)
			return log.Error("transaction rollback failed", "rollbackError", rollbackErr, "originalError", err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("failed to commit transaction", err)
	}

	runHooks()

	return nil
}
