package usecases

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/queuebot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/queuebot/internal/modules/music_player/domain"
)

const (
	testGuildID        = snowflake.ID(1)
	testVoiceChannelID = snowflake.ID(2)
	testTextChannelID  = snowflake.ID(3)
	testUserID         = snowflake.ID(4)
)

func testRequester() Requester {
	return Requester{
		UserID:        testUserID,
		DisplayName:   "tester",
		TextChannelID: testTextChannelID,
	}
}

func trackFor(target string) domain.Track {
	return domain.Track{
		Title:    target,
		URL:      "https://example.com/" + target,
		Duration: 3 * time.Minute,
	}
}

type mockRegistry struct {
	mu      sync.Mutex
	queues  map[snowflake.ID]*domain.GuildQueue
	creates int
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{queues: make(map[snowflake.ID]*domain.GuildQueue)}
}

func (m *mockRegistry) GetOrCreate(
	guildID snowflake.ID,
	create func() *domain.GuildQueue,
) (*domain.GuildQueue, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.queues[guildID]; ok {
		return q, false
	}
	q := create()
	m.queues[guildID] = q
	m.creates++
	return q, true
}

func (m *mockRegistry) Get(guildID snowflake.ID) (*domain.GuildQueue, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[guildID]
	return q, ok
}

func (m *mockRegistry) Remove(guildID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.queues, guildID)
}

func (m *mockRegistry) GuildIDs() []snowflake.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]snowflake.ID, 0, len(m.queues))
	for id := range m.queues {
		ids = append(ids, id)
	}
	return ids
}

// seed registers a queue holding the given titles.
func (m *mockRegistry) seed(titles ...string) *domain.GuildQueue {
	q := domain.NewGuildQueue(testGuildID, testVoiceChannelID, testTextChannelID, domain.DefaultVolume)
	for _, title := range titles {
		q.Append(trackFor(title).Requested(testUserID, "tester"))
	}
	m.mu.Lock()
	m.queues[testGuildID] = q
	m.mu.Unlock()
	return q
}

type mockResolver struct {
	mu       sync.Mutex
	calls    []string
	results  map[string]*ports.Resolution
	err      error
	entered  chan string   // receives the target when Resolve starts, if set
	release  chan struct{} // Resolve waits on it, if set
	blockFor string        // only this target blocks; empty blocks all
}

func (m *mockResolver) Resolve(ctx context.Context, query string) (*ports.Resolution, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	m.mu.Unlock()

	if m.entered != nil {
		m.entered <- query
	}
	if m.release != nil && (m.blockFor == "" || m.blockFor == query) {
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.err != nil {
		return nil, m.err
	}
	if r, ok := m.results[query]; ok {
		return r, nil
	}
	track := trackFor(query)
	return &ports.Resolution{Track: &track}, nil
}

func (m *mockResolver) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockSearcher struct {
	refs  []domain.TrackReference
	err   error
	calls int
}

func (m *mockSearcher) Search(_ context.Context, _ string, limit int) ([]domain.TrackReference, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.refs) > limit {
		return m.refs[:limit], nil
	}
	return m.refs, nil
}

type mockSearchCache struct {
	mu      sync.Mutex
	entries map[snowflake.ID]domain.SearchResults
}

func newMockSearchCache() *mockSearchCache {
	return &mockSearchCache{entries: make(map[snowflake.ID]domain.SearchResults)}
}

func (m *mockSearchCache) Record(userID snowflake.ID, results domain.SearchResults) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userID] = results
}

func (m *mockSearchCache) Lookup(userID snowflake.ID) (domain.SearchResults, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.entries[userID]
	return r, ok
}

type mockVoiceContext struct {
	channelID snowflake.ID
	err       error
	empty     bool
	emptyErr  error
}

func (m *mockVoiceContext) JoinableChannel(_, _ snowflake.ID) (snowflake.ID, error) {
	return m.channelID, m.err
}

func (m *mockVoiceContext) MembersEmpty(_, _ snowflake.ID) (bool, error) {
	return m.empty, m.emptyErr
}

type mockVoiceConnection struct {
	mu       sync.Mutex
	joins    int
	leaves   int
	joinErr  error
	leaveErr error
}

func (m *mockVoiceConnection) JoinChannel(_ context.Context, _, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joins++
	return m.joinErr
}

func (m *mockVoiceConnection) LeaveChannel(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves++
	return m.leaveErr
}

type mockAudioPlayer struct {
	mu        sync.Mutex
	played    []string
	stops     int
	pauses    int
	resumes   int
	volumes   []int
	playErr   error
	pauseErr  error
	resumeErr error
}

func (m *mockAudioPlayer) Play(_ context.Context, _ snowflake.ID, track domain.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.played = append(m.played, track.Title)
	return m.playErr
}

func (m *mockAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	return nil
}

func (m *mockAudioPlayer) Pause(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
	return m.pauseErr
}

func (m *mockAudioPlayer) Resume(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumes++
	return m.resumeErr
}

func (m *mockAudioPlayer) SetVolume(_ context.Context, _ snowflake.ID, volume int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volumes = append(m.volumes, volume)
	return nil
}

func (m *mockAudioPlayer) playedTitles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.played)
}

type recordingSink struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func (r *recordingSink) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recordingSink) kinds() []domain.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]domain.NotificationKind, len(r.notifications))
	for i, n := range r.notifications {
		kinds[i] = n.Kind
	}
	return kinds
}

func (r *recordingSink) last() domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return domain.Notification{}
	}
	return r.notifications[len(r.notifications)-1]
}

type controllerFixture struct {
	controller *PlaybackController
	registry   *mockRegistry
	resolver   *mockResolver
	voice      *mockVoiceContext
	connection *mockVoiceConnection
	player     *mockAudioPlayer
	sink       *recordingSink
}

func newControllerFixture() *controllerFixture {
	f := &controllerFixture{
		registry:   newMockRegistry(),
		resolver:   &mockResolver{},
		voice:      &mockVoiceContext{channelID: testVoiceChannelID},
		connection: &mockVoiceConnection{},
		player:     &mockAudioPlayer{},
		sink:       &recordingSink{},
	}
	f.controller = NewPlaybackController(
		f.registry,
		f.resolver,
		f.voice,
		f.connection,
		f.player,
		f.sink,
		PlaybackConfig{DefaultVolume: domain.DefaultVolume, ResolveTimeout: time.Second},
	)
	return f
}

func (f *controllerFixture) play(t *testing.T, target string) domain.Notification {
	t.Helper()
	n, err := f.controller.Play(context.Background(), PlayInput{
		GuildID:   testGuildID,
		Target:    target,
		Requester: testRequester(),
	})
	if err != nil {
		t.Fatalf("Play(%q) unexpected error: %v", target, err)
	}
	return n
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func assertErrorIs(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
}
