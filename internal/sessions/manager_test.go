package sessions

import (
	"sync"
	"testing"
	"time"

	"github.com/careassist/server/internal/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionID(t *testing.T) {
	id1, err := GenerateSessionID()
	require.NoError(t, err)
	assert.Len(t, id1, 32)

	id2, err := GenerateSessionID()
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestManager_CreateAndGetSession(t *testing.T) {
	m := NewManager(30*time.Minute, memory.DefaultExchanges)

	session, err := m.CreateSession()
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.NotEmpty(t, session.ID)
	assert.NotNil(t, session.Window)
	assert.Equal(t, 0, session.Window.Len())

	got, exists := m.GetSession(session.ID)
	require.True(t, exists)
	assert.Same(t, session, got)

	assert.Equal(t, 1, m.SessionCount())
}

func TestManager_GetUnknownSession(t *testing.T) {
	m := NewManager(30*time.Minute, memory.DefaultExchanges)

	got, exists := m.GetSession("does-not-exist")

	assert.False(t, exists)
	assert.Nil(t, got)
}

func TestManager_ExpiredSessionNotReturned(t *testing.T) {
	m := NewManager(10*time.Millisecond, memory.DefaultExchanges)

	session, err := m.CreateSession()
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	got, exists := m.GetSession(session.ID)
	assert.False(t, exists)
	assert.Nil(t, got)
}

func TestManager_TouchExtendsLifetime(t *testing.T) {
	m := NewManager(50*time.Millisecond, memory.DefaultExchanges)

	session, err := m.CreateSession()
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	m.Touch(session.ID)
	time.Sleep(30 * time.Millisecond)

	// without the touch the session would have expired by now
	_, exists := m.GetSession(session.ID)
	assert.True(t, exists)
}

func TestManager_DeleteSession(t *testing.T) {
	m := NewManager(30*time.Minute, memory.DefaultExchanges)

	session, err := m.CreateSession()
	require.NoError(t, err)

	m.DeleteSession(session.ID)

	_, exists := m.GetSession(session.ID)
	assert.False(t, exists)
	assert.Equal(t, 0, m.SessionCount())
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	m := NewManager(30*time.Minute, memory.DefaultExchanges)

	first, err := m.CreateSession()
	require.NoError(t, err)
	second, err := m.CreateSession()
	require.NoError(t, err)

	first.Window.Append("question in first", "answer in first")

	assert.Equal(t, 2, first.Window.Len())
	assert.Equal(t, 0, second.Window.Len())
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(30*time.Minute, memory.DefaultExchanges)

	var wg sync.WaitGroup

	for range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			session, err := m.CreateSession()
			if err != nil {
				t.Error(err)
				return
			}

			if _, exists := m.GetSession(session.ID); !exists {
				t.Error("created session not found")
			}

			m.Touch(session.ID)
		}()
	}

	wg.Wait()
	assert.Equal(t, 20, m.SessionCount())
}

func TestSession_LockSerializesWindowAccess(t *testing.T) {
	m := NewManager(30*time.Minute, memory.DefaultExchanges)

	session, err := m.CreateSession()
	require.NoError(t, err)

	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			session.Lock()
			defer session.Unlock()

			session.Window.Append("q", "a")
		}(i)
	}

	wg.Wait()

	// window capacity bounds the history regardless of write count
	assert.Equal(t, memory.DefaultExchanges*2, session.Window.Len())
}
