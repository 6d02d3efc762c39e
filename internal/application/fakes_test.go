package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/infrastructure/memory"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/mailer"
)

var errStoreDown = errors.New("store down")

type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFixedClock(t time.Time) *fixedClock { return &fixedClock{t: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func seedUser(r *memory.UserRepository, name string) *entity.User {
	u := &entity.User{ID: helpers.NewID(), Name: name, Email: name + "@example.com", IsVerified: true}
	r.Put(u)
	return u
}

type recordingMail struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (m *recordingMail) Send(_ context.Context, job mailer.EmailJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	return m.err
}

func (m *recordingMail) last() mailer.EmailJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.jobs) == 0 {
		return mailer.EmailJob{}
	}
	return m.jobs[len(m.jobs)-1]
}

type fakeImages struct {
	uploaded map[string][]byte
	deleted  []string
}

func newFakeImages() *fakeImages { return &fakeImages{uploaded: map[string][]byte{}} }

func (f *fakeImages) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.uploaded[objectPath] = b
	return "https://cdn.test/" + objectPath, nil
}

func (f *fakeImages) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

// scriptedProvider replays responses in order; the last one repeats.
type scriptedProvider struct {
	responses []string
	err       error
	calls     int
}

func (p *scriptedProvider) Complete(context.Context, string) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	i := p.calls - 1
	if i >= len(p.responses) {
		i = len(p.responses) - 1
	}
	return p.responses[i], nil
}
