package contextx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"verhandlungsbot/pkg/contextx"
)

func TestParticipantID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	participantID, err := contextx.ParticipantIDFromContext(ctx)
	rq.Empty(participantID)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "participant id: no value in context")

	ctx = contextx.WithParticipantID(ctx, "vp-042")

	participantID, err = contextx.ParticipantIDFromContext(ctx)
	rq.NoError(err)
	rq.Equal(contextx.ParticipantID("vp-042"), participantID)
	rq.Equal("vp-042", participantID.String())
}
