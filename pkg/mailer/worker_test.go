package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-notes-sync/pkg/helpers"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	got []sent
	err error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	f.got = append(f.got, sent{to, subject, text, html})
	return f.err
}

func newWorker(s Sender) *Worker {
	return &Worker{Sender: s, Logger: helpers.NewNopLogger(), Timeout: time.Second}
}

func TestWorker_RendersTemplate(t *testing.T) {
	fs := &fakeSender{}
	body, err := json.Marshal(NewWelcomeJob("Notes", "alice", "alice@x.com"))
	require.NoError(t, err)

	assert.Equal(t, Ack, newWorker(fs).Handle(context.Background(), body))
	require.Len(t, fs.got, 1)
	assert.Equal(t, "alice@x.com", fs.got[0].to)
	assert.Contains(t, fs.got[0].subject, "Notes")
	assert.Contains(t, fs.got[0].text, "alice")
	assert.NotEmpty(t, fs.got[0].html)
}

func TestWorker_RawJob(t *testing.T) {
	fs := &fakeSender{}
	body, _ := json.Marshal(EmailJob{To: "a@x.com", Subject: "hi", Text: "body"})
	assert.Equal(t, Ack, newWorker(fs).Handle(context.Background(), body))
	assert.Equal(t, "hi", fs.got[0].subject)
}

func TestWorker_Dispositions(t *testing.T) {
	w := newWorker(&fakeSender{})
	ctx := context.Background()

	assert.Equal(t, Drop, w.Handle(ctx, []byte("{")))
	assert.Equal(t, Drop, w.Handle(ctx, []byte(`{"subject":"x"}`)))
	assert.Equal(t, Drop, w.Handle(ctx, []byte(`{"to":"a@x.com","template":"nope"}`)))
	assert.Equal(t, Drop, w.Handle(ctx, []byte(`{"to":"a@x.com"}`)))

	failing := newWorker(&fakeSender{err: errors.New("mailgun 503")})
	body, _ := json.Marshal(NewProfileUpdatedJob("Notes", "alice", "a@x.com", []string{"username"}))
	assert.Equal(t, Retry, failing.Handle(ctx, body))
}
