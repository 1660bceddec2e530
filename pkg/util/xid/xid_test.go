package xid

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedMachine(id uint16) Option {
	return WithMachineID(func() (uint16, error) { return id, nil })
}

func TestGenerator_UniqueAndIncreasing(t *testing.T) {
	g, err := NewGenerator(fixedMachine(42))
	require.NoError(t, err)

	var prev int64
	for range 100 {
		id, err := g.New()
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestGenerator_ConcurrentUnique(t *testing.T) {
	g, err := NewGenerator(fixedMachine(1))
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{})
		wg   sync.WaitGroup
	)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				s, err := g.NewString()
				assert.NoError(t, err)
				mu.Lock()
				seen[s] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 200)
}

func TestNewString_ParseAndDecompose(t *testing.T) {
	g, err := NewGenerator(fixedMachine(513))
	require.NoError(t, err)

	s, err := g.NewString()
	require.NoError(t, err)
	id, err := Parse(s)
	require.NoError(t, err)

	c, err := Decompose(id)
	require.NoError(t, err)
	assert.Equal(t, int64(513), c.Machine)
	assert.Positive(t, c.Time)
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "!!", "-1", "0"} {
		_, err := Parse(s)
		assert.ErrorIs(t, err, ErrInvalidID, s)
	}
	_, err := Decompose(0)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestNewGenerator_MachineIDError(t *testing.T) {
	_, err := NewGenerator(WithMachineID(func() (uint16, error) {
		return 0, errors.New("no id")
	}))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDefaultMachineID_Env(t *testing.T) {
	t.Setenv(EnvMachineID, "1234")
	id, err := DefaultMachineID()
	require.NoError(t, err)
	assert.Equal(t, uint16(1234), id)

	t.Setenv(EnvMachineID, "70000")
	_, err = DefaultMachineID()
	assert.Error(t, err)
}

func TestDefaultMachineID_Hostname(t *testing.T) {
	t.Setenv(EnvMachineID, "")
	orig := osHostname
	t.Cleanup(func() { osHostname = orig })

	osHostname = func() (string, error) { return "mealadmin-0", nil }
	id, err := DefaultMachineID()
	require.NoError(t, err)
	assert.Equal(t, hashToMachineID("mealadmin-0"), id)

	osHostname = func() (string, error) { return "", nil }
	_, err = DefaultMachineID()
	assert.Error(t, err)

	osHostname = func() (string, error) { return "", errors.New("denied") }
	_, err = DefaultMachineID()
	assert.Error(t, err)
}

func TestHashToMachineID_Stable(t *testing.T) {
	assert.Equal(t, hashToMachineID("a"), hashToMachineID("a"))
	assert.NotEqual(t, hashToMachineID("pod-a"), hashToMachineID("pod-b"))
}
