package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exotic24-7/zephyrax.io/internal/rarity"
	"github.com/exotic24-7/zephyrax.io/internal/state"
	"github.com/exotic24-7/zephyrax.io/logging"
	loggingeconomy "github.com/exotic24-7/zephyrax.io/logging/economy"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "loadouts.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleLoadout() state.Loadout {
	var l state.Loadout
	l.Main[0] = &state.Slot{Type: "Rose", Rarity: rarity.Rare, Stack: 3}
	l.Swap[9] = &state.Slot{Type: "Missile", Rarity: rarity.Mythical, Stack: 1}
	l.Inventory.Add("Light", rarity.Common, 4)
	return l
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mongo", "", zerolog.Nop())
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = Open(DriverNone, "", zerolog.Nop())
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestLoadMissingPlayer(t *testing.T) {
	s := openTestStore(t)

	_, _, ok, err := s.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	want := sampleLoadout()

	require.NoError(t, s.Save(ctx, "p1", want, 4))
	got, wave, ok, err := s.Load(ctx, "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, wave)
	assert.Equal(t, want, got)

	want.Main[0].Stack = 1
	require.NoError(t, s.Save(ctx, "p1", want, 6))
	got, wave, _, err = s.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 6, wave)
	assert.Equal(t, 1, got.Main[0].Stack)

	var count int64
	require.NoError(t, s.DB.Model(&LoadoutRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSaverDebouncesInventoryChanges(t *testing.T) {
	s := openTestStore(t)
	saver := NewSaver(s, "p1", 20*time.Millisecond, zerolog.Nop())
	saver.Observe(sampleLoadout(), 2)

	require.NoError(t, saver.Write(logging.Event{Type: "combat.damage"}))
	require.NoError(t, saver.Write(logging.Event{Type: loggingeconomy.EventInventoryChanged}))
	require.NoError(t, saver.Write(logging.Event{Type: loggingeconomy.EventInventoryChanged}))

	require.Eventually(t, func() bool { return saver.Saves() == 1 }, 2*time.Second, 5*time.Millisecond)
	_, wave, ok, err := s.Load(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, wave)
}

func TestSaverCloseFlushesPending(t *testing.T) {
	s := openTestStore(t)
	saver := NewSaver(s, "p1", time.Hour, zerolog.Nop())
	saver.Observe(sampleLoadout(), 3)
	require.NoError(t, saver.Write(logging.Event{Type: loggingeconomy.EventInventoryChanged}))

	require.NoError(t, saver.Close(context.Background()))
	assert.Equal(t, 1, saver.Saves())

	require.NoError(t, saver.Write(logging.Event{Type: loggingeconomy.EventInventoryChanged}))
	require.NoError(t, saver.Close(context.Background()))
	assert.Equal(t, 1, saver.Saves())
}

func TestSaverSkipsWithoutObservation(t *testing.T) {
	s := openTestStore(t)
	saver := NewSaver(s, "p1", time.Hour, zerolog.Nop())
	require.NoError(t, saver.Write(logging.Event{Type: loggingeconomy.EventInventoryChanged}))

	require.NoError(t, saver.Close(context.Background()))
	assert.Zero(t, saver.Saves())
}
