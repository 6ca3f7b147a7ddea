package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econexus/econexus/internal/api"
	apierrors "github.com/econexus/econexus/internal/errors"
	"github.com/econexus/econexus/internal/fallback"
	"github.com/econexus/econexus/internal/models"
)

func TestNew_StartsWithGreeting(t *testing.T) {
	tests := []struct {
		name       string
		credential bool
		want       models.Status
	}{
		{"with credential", true, models.StatusReady},
		{"without credential", false, models.StatusWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := New(&api.MockReplyGenerator{Credential: tt.credential})

			msgs := conv.Messages()
			require.Len(t, msgs, 1)
			assert.Equal(t, models.Greeting, msgs[0].Text)
			assert.Equal(t, models.KindAssistant, msgs[0].Kind)
			assert.Equal(t, tt.want, conv.Status())
		})
	}
}

func TestSubmit_Success(t *testing.T) {
	gen := &api.MockReplyGenerator{Credential: true, Reply: "Kies groene stroom."}
	conv := New(gen)

	res, err := conv.Submit(context.Background(), "  Hoe bespaar ik energie?  ")
	require.NoError(t, err)

	assert.NoError(t, res.Err)
	assert.False(t, res.Discarded)
	assert.Equal(t, "Kies groene stroom.", res.Reply.Text)
	assert.False(t, res.Reply.Pending)
	assert.Equal(t, models.StatusReady, res.Status)
	assert.Equal(t, "Hoe bespaar ik energie?", gen.LastPrompt())

	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, models.KindUser, msgs[1].Kind)
	assert.Equal(t, models.AuthorUser, msgs[1].Author)
	assert.Equal(t, "Hoe bespaar ik energie?", msgs[1].Text)
	assert.Equal(t, models.KindAssistant, msgs[2].Kind)
	assert.Equal(t, models.AuthorAssistant, msgs[2].Author)
	assert.Equal(t, res.Reply, msgs[2])
	assert.False(t, conv.Busy())
}

func TestSubmit_BlankInput(t *testing.T) {
	gen := &api.MockReplyGenerator{Credential: true, Reply: "x"}
	conv := New(gen)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := conv.Submit(context.Background(), text)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}

	assert.Len(t, conv.Messages(), 1)
	assert.Zero(t, gen.Calls())
}

func TestSubmit_MissingCredential(t *testing.T) {
	gen := &api.MockReplyGenerator{Credential: false, Reply: "should not be used"}
	conv := New(gen)
	before := len(conv.Messages())

	res, err := conv.Submit(context.Background(), "Hoe werkt zonne-energie?")
	require.NoError(t, err)

	msgs := conv.Messages()
	require.Len(t, msgs, before+2)
	assert.Equal(t, "Hoe werkt zonne-energie?", msgs[before].Text)

	reply := msgs[before+1]
	assert.False(t, reply.Pending)
	assert.Contains(t, reply.Text, "API-sleutel nodig")
	assert.Contains(t, reply.Text, fallback.DefaultRules[0].Reply)
	assert.Equal(t, models.StatusWarning, res.Status)
	assert.Equal(t, models.StatusWarning, conv.Status())
	assert.True(t, apierrors.IsMissingCredential(res.Err))
	assert.Zero(t, gen.Calls(), "no request without a credential")
}

func TestSubmit_Failures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind apierrors.Kind
		wantText string
	}{
		{"timeout", apierrors.NewTimeoutError(context.DeadlineExceeded), apierrors.KindTimeout, "duurde te lang"},
		{"network", apierrors.NewNetworkError(errors.New("refused")), apierrors.KindNetwork, "netwerkfout"},
		{"api", apierrors.NewAPIError(403, "Forbidden"), apierrors.KindAPI, "Gemini API-fout: Forbidden"},
		{"unclassified", errors.New("weird"), apierrors.KindUnknown, "onverwachte fout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := New(&api.MockReplyGenerator{Credential: true, Err: tt.err})

			res, err := conv.Submit(context.Background(), "Wat is mijn impact?")
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, apierrors.KindOf(res.Err))
			assert.Equal(t, models.StatusError, res.Status)
			assert.Contains(t, res.Reply.Text, tt.wantText)
			assert.Contains(t, res.Reply.Text, fallback.DefaultRules[3].Reply)
			assert.False(t, res.Reply.Pending)
		})
	}
}

func TestSubmit_StatusRecoversAfterSuccess(t *testing.T) {
	gen := &api.MockReplyGenerator{Credential: true, Err: apierrors.NewNetworkError(errors.New("down"))}
	conv := New(gen)

	res, _ := conv.Submit(context.Background(), "eerste")
	assert.Equal(t, models.StatusError, res.Status)

	gen.Err = nil
	gen.Reply = "Weer online."
	res, _ = conv.Submit(context.Background(), "tweede")
	assert.Equal(t, models.StatusReady, res.Status)
	assert.Equal(t, models.StatusReady, conv.Status())
}

func TestSubmit_EmptyReplyIsEmptyResponse(t *testing.T) {
	conv := New(&api.MockReplyGenerator{Credential: true, Reply: "   "})

	res, err := conv.Submit(context.Background(), "hallo")
	require.NoError(t, err)
	assert.Equal(t, apierrors.KindEmptyResponse, apierrors.KindOf(res.Err))
	assert.Contains(t, res.Reply.Text, "Gemini gaf een leeg antwoord.")
}

func TestSubmit_PanicIsRecovered(t *testing.T) {
	conv := New(&api.MockReplyGenerator{
		Credential: true,
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			panic("kapot")
		},
	})

	res, err := conv.Submit(context.Background(), "hallo")
	require.NoError(t, err)
	assert.Equal(t, apierrors.KindUnknown, apierrors.KindOf(res.Err))
	assert.Equal(t, models.StatusError, res.Status)
	assert.False(t, conv.Busy())
}

func TestBegin_ShowsPendingPlaceholder(t *testing.T) {
	release := make(chan struct{})
	gen := &api.MockReplyGenerator{
		Credential: true,
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			<-release
			return "Klaar.", nil
		},
	}
	conv := New(gen)

	p, err := conv.Begin("vraag")
	require.NoError(t, err)

	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.True(t, msgs[2].Pending)
	assert.Equal(t, models.PendingText, msgs[2].Text)
	assert.Equal(t, p.MessageID, msgs[2].ID)
	assert.True(t, conv.Busy())

	// a second submission is rejected while awaiting
	_, err = conv.Begin("nog een vraag")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Len(t, conv.Messages(), 3)

	done := make(chan Result)
	go func() { done <- conv.Await(context.Background(), p) }()
	close(release)

	res := <-done
	assert.Equal(t, "Klaar.", res.Reply.Text)
	assert.False(t, conv.Busy())
}

func TestReset(t *testing.T) {
	conv := New(&api.MockReplyGenerator{Credential: true, Reply: "antwoord"})
	_, _ = conv.Submit(context.Background(), "een")
	_, _ = conv.Submit(context.Background(), "twee")
	require.Len(t, conv.Messages(), 5)

	conv.Reset()

	msgs := conv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.Greeting, msgs[0].Text)
	assert.Equal(t, models.KindAssistant, msgs[0].Kind)
	assert.False(t, msgs[0].Pending)
}

func TestReset_DiscardsInFlightReply(t *testing.T) {
	started := make(chan struct{})
	var cancelled bool
	var mu sync.Mutex
	gen := &api.MockReplyGenerator{
		Credential: true,
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			close(started)
			<-ctx.Done()
			mu.Lock()
			cancelled = true
			mu.Unlock()
			return "", apierrors.NewUnknownError(ctx.Err())
		},
	}
	conv := New(gen)

	p, err := conv.Begin("vraag")
	require.NoError(t, err)

	done := make(chan Result)
	go func() { done <- conv.Await(context.Background(), p) }()

	<-started
	conv.Reset()

	select {
	case res := <-done:
		assert.True(t, res.Discarded)
	case <-time.After(2 * time.Second):
		t.Fatal("Await did not return after Reset")
	}

	mu.Lock()
	assert.True(t, cancelled, "reset cancels the in-flight request")
	mu.Unlock()

	msgs := conv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.Greeting, msgs[0].Text)
	assert.False(t, conv.Busy())

	// a new submission works after the reset
	gen.GenerateFunc = nil
	gen.Reply = "Nieuw antwoord."
	res, err := conv.Submit(context.Background(), "opnieuw")
	require.NoError(t, err)
	assert.Equal(t, "Nieuw antwoord.", res.Reply.Text)
}

func TestAwait_StalePendingIsDiscarded(t *testing.T) {
	gen := &api.MockReplyGenerator{Credential: true, Reply: "x"}
	conv := New(gen)

	p, err := conv.Begin("vraag")
	require.NoError(t, err)
	conv.Reset()

	res := conv.Await(context.Background(), p)
	assert.True(t, res.Discarded)
	assert.Zero(t, gen.Calls())
}

func TestWithResponder(t *testing.T) {
	r := fallback.NewResponder([]fallback.Rule{{Keywords: []string{"boom"}, Reply: "Plant er een."}}, "standaard")
	conv := New(&api.MockReplyGenerator{Credential: false}, WithResponder(r))

	res, err := conv.Submit(context.Background(), "Een boom?")
	require.NoError(t, err)
	assert.Contains(t, res.Reply.Text, "Plant er een.")
}
