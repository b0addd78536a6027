package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/textileio/tender-core/tender"
)

func TestErrorCodes(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for _, ec := range ErrorCodes {
		require.False(t, seen[ec.Code], ec.Code)
		seen[ec.Code] = true

		err := fmt.Errorf("wrapped: %w", ec.Err)
		require.Equal(t, ec.Status, StatusCode(err))
		require.Equal(t, ec.Code, Codes(err)[0])
		require.Equal(t, ec.Code, CodeOf(ec.Err))
	}

	require.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("connection reset")))
	require.Empty(t, Codes(errors.New("connection reset")))
	require.Empty(t, CodeOf(tender.ErrInvalidConfig))

	closed := tender.NewRevealNotOpenError(tender.ErrRevealWindowClosed)
	require.Equal(t, []string{"reveal_not_open", "reveal_window_closed"}, Codes(closed))
	require.Equal(t, http.StatusConflict, StatusCode(closed))
}
