package contextx

import (
	"context"
	"fmt"
)

// ParticipantID идентификатор участника эксперимента (испытуемого).
type ParticipantID string

type contextKeyParticipantID struct{}

func (p ParticipantID) String() string {
	return string(p)
}

func WithParticipantID(ctx context.Context, participantID ParticipantID) context.Context {
	return context.WithValue(ctx, contextKeyParticipantID{}, participantID)
}

func ParticipantIDFromContext(ctx context.Context) (ParticipantID, error) {
	participantID, ok := ctx.Value(contextKeyParticipantID{}).(ParticipantID)
	if !ok {
		return "", fmt.Errorf("participant id: %w", ErrNoValue)
	}

	return participantID, nil
}
