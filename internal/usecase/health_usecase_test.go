package usecase_test

import (
	"context"
	"errors"
	"testing"

	"portfolio-backend/internal/usecase"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthUsecase(t *testing.T) {
	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer db.Close()

	uc := usecase.NewHealthUsecase(db, "1.2.3")

	info := uc.Info()
	assert.Equal(t, "Portfolio API is running", info.Message)
	assert.Equal(t, "1.2.3", info.Version)

	db.ExpectPing()
	status := uc.Check(context.Background())
	assert.True(t, status.Healthy())
	assert.Equal(t, "connected", status.Database)

	db.ExpectPing().WillReturnError(errors.New("connection refused"))
	status = uc.Check(context.Background())
	assert.False(t, status.Healthy())
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "disconnected", status.Database)

	assert.NoError(t, db.ExpectationsWereMet())
}
