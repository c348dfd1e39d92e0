package mongo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/mongo"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := mongo.New(context.Background(), mongo.Config{}, logger.Discard())
	require.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)

	_, err = mongo.New(context.Background(), mongo.Config{ConnectionURL: "not-a-uri", RetryAttempts: 3}, logger.Discard())
	require.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
}
