// Package mongo connects to MongoDB with the official v2 driver.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, log)
//	if err != nil {
//	    return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
//	users := mongodir.New(db)
//
// New retries the initial ping RetryAttempts times with a constant
// RetryInterval. Configuration errors in the URI are not retried.
package mongo
