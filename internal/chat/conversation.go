// Package chat implements the EcoNexus conversation: message thread, reply
// pipeline and failure translation. It is shared by the CLI, TUI and web surfaces.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/econexus/econexus/internal/api"
	apierrors "github.com/econexus/econexus/internal/errors"
	"github.com/econexus/econexus/internal/fallback"
	"github.com/econexus/econexus/internal/models"
)

var (
	// ErrEmptyInput is returned when the submitted text is blank
	ErrEmptyInput = errors.New("empty input")
	// ErrBusy is returned while a reply is still being generated
	ErrBusy = errors.New("a reply is already being generated")
)

// Pending identifies a submission that is awaiting its reply
type Pending struct {
	MessageID string
	Input     string
	gen       uint64
}

// Result is the settled outcome of one submission
type Result struct {
	Reply  models.Message
	Status models.Status
	// Err is the classified failure, nil when Gemini answered
	Err error
	// Discarded is set when the conversation was reset before the reply arrived
	Discarded bool
}

// Conversation owns the message thread and the connection status.
// Only one submission is processed at a time.
type Conversation struct {
	generator api.ReplyGenerator
	responder *fallback.Responder
	log       zerolog.Logger

	mu       sync.Mutex
	messages []models.Message
	status   models.Status
	busy     bool
	awaiting bool
	cancel   context.CancelFunc
	gen      uint64
}

// Option configures a Conversation
type Option func(*Conversation)

// WithLogger sets the logger used to report failed replies
func WithLogger(log zerolog.Logger) Option {
	return func(c *Conversation) {
		c.log = log
	}
}

// WithResponder replaces the offline fallback responder
func WithResponder(r *fallback.Responder) Option {
	return func(c *Conversation) {
		if r != nil {
			c.responder = r
		}
	}
}

// New creates a conversation that starts with the greeting. The initial status
// reflects whether generator has a credential.
func New(generator api.ReplyGenerator, opts ...Option) *Conversation {
	c := &Conversation{
		generator: generator,
		responder: fallback.NewResponder(fallback.DefaultRules, fallback.DefaultReply),
		log:       zerolog.Nop(),
		status:    models.InitialStatus(generator.HasCredential()),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.messages = []models.Message{models.NewAssistantMessage(models.Greeting, false)}
	return c
}

// Submit appends text as a user message, waits for the reply and returns the
// settled assistant message. Failures are translated into the reply text, so the
// returned error is only ErrEmptyInput or ErrBusy.
func (c *Conversation) Submit(ctx context.Context, text string) (Result, error) {
	p, err := c.Begin(text)
	if err != nil {
		return Result{Status: c.Status()}, err
	}
	return c.Await(ctx, p), nil
}

// Begin appends the user message and a pending assistant placeholder.
// Call Await with the returned Pending to resolve it.
func (c *Conversation) Begin(text string) (Pending, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return Pending{}, ErrEmptyInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return Pending{}, ErrBusy
	}

	placeholder := models.NewAssistantMessage(models.PendingText, true)
	c.messages = append(c.messages, models.NewUserMessage(input), placeholder)
	c.busy = true

	return Pending{MessageID: placeholder.ID, Input: input, gen: c.gen}, nil
}

// Await generates the reply for p and replaces the placeholder text.
// If the conversation was reset meanwhile the result is discarded.
func (c *Conversation) Await(ctx context.Context, p Pending) Result {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if !c.busy || c.awaiting || p.gen != c.gen {
		status := c.status
		c.mu.Unlock()
		return Result{Status: status, Discarded: true}
	}
	c.awaiting = true
	c.cancel = cancel
	c.mu.Unlock()

	reply, err := c.generate(ctx, p.Input)

	c.mu.Lock()
	defer c.mu.Unlock()

	if p.gen != c.gen {
		return Result{Status: c.status, Discarded: true}
	}
	c.busy = false
	c.awaiting = false
	c.cancel = nil

	text := reply
	if err == nil {
		c.status = models.StatusReady
	} else {
		ce := apierrors.Classify(err)
		c.log.Warn().
			Str("kind", ce.Kind.String()).
			Int("http_status", apierrors.GetHTTPStatus(ce)).
			AnErr("cause", ce.Cause).
			Msg(ce.Error())

		f := describeFailure(ce, c.responder.Reply(p.Input))
		text = f.DisplayText
		c.status = f.Status
		err = ce
	}

	msg := c.settle(p.MessageID, text)
	return Result{Reply: msg, Status: c.status, Err: err}
}

// generate runs the reply pipeline. Without a credential no request is made.
// Panics from the generator are reported as unknown failures.
func (c *Conversation) generate(ctx context.Context, input string) (reply string, err error) {
	if !c.generator.HasCredential() {
		return "", apierrors.NewMissingCredentialError()
	}

	defer func() {
		if r := recover(); r != nil {
			reply = ""
			err = apierrors.NewUnknownError(fmt.Errorf("panic: %v", r))
		}
	}()

	reply, err = c.generator.GenerateReply(ctx, input)
	if err != nil {
		return "", err
	}
	if reply = strings.TrimSpace(reply); reply == "" {
		return "", apierrors.NewEmptyResponseError()
	}
	return reply, nil
}

// settle replaces the placeholder text and clears its pending flag. Caller holds mu.
func (c *Conversation) settle(id, text string) models.Message {
	for i := range c.messages {
		if c.messages[i].ID == id {
			c.messages[i].Text = text
			c.messages[i].Pending = false
			return c.messages[i]
		}
	}
	return models.Message{}
}

// Reset cancels any reply in flight, clears the thread and appends the greeting.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.busy = false
	c.awaiting = false
	c.messages = []models.Message{models.NewAssistantMessage(models.Greeting, false)}
}

// Messages returns a copy of the thread
func (c *Conversation) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Status returns the current connection status
func (c *Conversation) Status() models.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Busy reports whether a reply is awaited
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}
