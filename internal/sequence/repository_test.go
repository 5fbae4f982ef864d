package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_NextSequence(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO event_sequence`).
		WithArgs("ORD-1").
		WillReturnRows(pgxmock.NewRows([]string{"last_sequence"}).AddRow(int64(1)))
	mock.ExpectQuery(`INSERT INTO event_sequence`).
		WithArgs("ORD-1").
		WillReturnRows(pgxmock.NewRows([]string{"last_sequence"}).AddRow(int64(2)))

	repo := NewRepository(mock)
	ctx := context.Background()

	first, err := repo.NextSequence(ctx, "ORD-1")
	require.NoError(t, err)
	second, err := repo.NextSequence(ctx, "ORD-1")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_NextSequenceError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO event_sequence`).
		WithArgs("ORD-1").
		WillReturnError(errors.New("db down"))

	_, err = NewRepository(mock).NextSequence(context.Background(), "ORD-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "next sequence")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemory_PerPartition(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.NextSequence(ctx, "ORD-1")
		}()
	}
	wg.Wait()

	next, err := m.NextSequence(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, int64(51), next)

	other, err := m.NextSequence(ctx, "ORD-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other)
}
