package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nikoksr/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1duel/pkg/model"
	"f1duel/pkg/pubsub"
	"f1duel/pkg/settings"
)

type staticLister []settings.TelegramUser

func (l staticLister) ListSubscribers() ([]settings.TelegramUser, error) {
	return l, nil
}

type sent struct {
	chatIDs []int64
	subject string
	message string
}

type recorder struct {
	mu   sync.Mutex
	sent []sent
	done chan struct{}
}

type recordingNotifier struct {
	r       *recorder
	chatIDs []int64
}

func (n recordingNotifier) Send(_ context.Context, subject, message string) error {
	n.r.mu.Lock()
	n.r.sent = append(n.r.sent, sent{n.chatIDs, subject, message})
	n.r.mu.Unlock()
	n.r.done <- struct{}{}
	return nil
}

func (r *recorder) factory(chatIDs []int64) notify.Notifier {
	return recordingNotifier{r: r, chatIDs: chatIDs}
}

func TestSharedDuelReachesSubscribers(t *testing.T) {
	rec := &recorder{done: make(chan struct{}, 1)}
	lister := staticLister{
		{ID: "1", ChatID: "100"},
		{ID: "2", ChatID: "not-a-number"},
		{ID: "3", ChatID: "300"},
	}
	m := NewManager(lister, rec.factory)

	ps := pubsub.NewPubSub[model.DuelShared]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx, ps.Subscribe(pubsub.TopicDuelShared))

	ps.Publish(ctx, pubsub.TopicDuelShared, model.DuelShared{Title: "VER vs LEC", Body: "Faster Driver: VER"})

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification not sent")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.sent, 1)
	assert.Equal(t, []int64{100, 300}, rec.sent[0].chatIDs)
	assert.Equal(t, "VER vs LEC", rec.sent[0].subject)
	assert.Equal(t, "Faster Driver: VER", rec.sent[0].message)
}

func TestNoSubscribersSendsNothing(t *testing.T) {
	rec := &recorder{done: make(chan struct{}, 1)}
	m := NewManager(staticLister{}, rec.factory)
	require.NoError(t, m.sendNotification(context.Background(), nil, model.DuelShared{Title: "x"}))
	assert.Empty(t, rec.sent)
}

func TestStartStopsOnClosedChannel(t *testing.T) {
	m := NewManager(staticLister{}, (&recorder{}).factory)
	ch := make(chan model.DuelShared)
	close(ch)
	done := make(chan struct{})
	go func() {
		m.Start(context.Background(), ch)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return")
	}
}
