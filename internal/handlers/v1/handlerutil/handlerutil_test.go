package handlerutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/operator"
	"github.com/carson-networks/budget-engine/internal/service"
	"github.com/carson-networks/budget-engine/internal/storage"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.True(t, errors.As(err, &se))
	return se.GetStatus()
}

func TestServiceError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusOf(t, ServiceError(fmt.Errorf("%w: bad", ledger.ErrInvalidRule), "x")))
	assert.Equal(t, http.StatusBadRequest, statusOf(t, ServiceError(service.ErrInvalidWindow, "x")))
	assert.Equal(t, http.StatusNotFound, statusOf(t, ServiceError(fmt.Errorf("rule: %w", storage.ErrNotFound), "x")))
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(t, ServiceError(fmt.Errorf("create: %w", operator.ErrStopped), "x")))
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, ServiceError(errors.New("boom"), "x")))
}

func TestParseDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	got, err := ParseDate("date", "2024-03-15", tokyo)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, tokyo), got)

	_, err = ParseDate("date", "15/03/2024", tokyo)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestParseOptionalDate_Empty(t *testing.T) {
	got, err := ParseOptionalDate("endDate", "", time.UTC)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseOptionalID(t *testing.T) {
	id := uuid.Must(uuid.NewV4())

	got, err := ParseOptionalID("accountId", id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = ParseOptionalID("accountId", "")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got)

	_, err = ParseOptionalID("accountId", "nope")
	assert.Error(t, err)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "", FormatID(uuid.Nil))
	assert.Equal(t, "", FormatOptionalDate(nil))
	d := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-05", FormatOptionalDate(&d))
}
