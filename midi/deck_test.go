package midi

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-sounddeck/deck"
	"go-sounddeck/stave"
)

type wire struct {
	mu   sync.Mutex
	msgs []gomidi.Message
	err  error
}

func (w *wire) send(msg gomidi.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msg)
	return nil
}

func (w *wire) events() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []Event
	for _, m := range w.msgs {
		var ch, key, vel uint8
		switch {
		case m.GetNoteOn(&ch, &key, &vel):
			out = append(out, Event{Type: NoteOn, Channel: ch, Note: key, Velocity: vel})
		case m.GetNoteOff(&ch, &key, &vel):
			out = append(out, Event{Type: NoteOff, Channel: ch, Note: key})
		}
	}
	return out
}

func TestPlayToneSendsNoteOnAndOff(t *testing.T) {
	w := &wire{}
	d := NewDeck(w.send, 3, "gm")

	c := d.PlayTone(deck.ToneConfig{NoiseConfig: deck.NoiseConfig{
		PlayOptions: deck.PlayOptions{Volume: 1},
		Duration:    0.01,
		Frequency:   440,
	}})
	require.NotNil(t, c)

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("note never ended")
	}

	ev := w.events()
	require.Len(t, ev, 2)
	assert.Equal(t, Event{Type: NoteOn, Channel: 2, Note: 69, Velocity: 127}, ev[0])
	assert.Equal(t, Event{Type: NoteOff, Channel: 2, Note: 69}, ev[1])
}

func TestPlayNoiseHitsDrumChannel(t *testing.T) {
	w := &wire{}
	d := NewDeck(w.send, 1, "rd8")

	c := d.PlayNoise(deck.NoiseConfig{PlayOptions: deck.PlayOptions{Volume: 0.5}, Duration: 1, Frequency: 1046})
	require.NotNil(t, c)
	c.Stop()
	c.Stop()

	ev := w.events()
	require.Len(t, ev, 2)
	assert.Equal(t, DrumChannel, ev[0].Channel)
	assert.Equal(t, uint8(40), ev[0].Note, "RD-8 snare")
	assert.Equal(t, uint8(64), ev[0].Velocity)
	assert.Equal(t, NoteOff, ev[1].Type)
}

func TestDeckSwitch(t *testing.T) {
	w := &wire{}
	d := NewDeck(w.send, 0, "")
	assert.Equal(t, "General MIDI", d.Kit().Name)

	require.NoError(t, deck.Toggle(d))
	assert.False(t, d.Enabled())
	assert.Nil(t, d.PlayTone(deck.ToneConfig{}))

	require.NoError(t, d.Enable())
	d.Mute()
	c := d.PlayTone(deck.ToneConfig{NoiseConfig: deck.NoiseConfig{PlayOptions: deck.PlayOptions{Volume: 1}, Duration: 0.01}})
	require.NotNil(t, c, "muted decks still accept sounds")
	<-c.Done()
	assert.Empty(t, w.events())

	d.Unmute()
	d.SetMasterVolume(0.5)
	c = d.PlayTone(deck.ToneConfig{NoiseConfig: deck.NoiseConfig{PlayOptions: deck.PlayOptions{Volume: 1}, Duration: 0.01}})
	<-c.Done()
	ev := w.events()
	require.NotEmpty(t, ev)
	assert.Equal(t, uint8(64), ev[0].Velocity)
	assert.Equal(t, uint8(0), ev[0].Channel, "channel 0 falls back to 1")
}

func TestSendErrorDeclines(t *testing.T) {
	w := &wire{err: errors.New("unplugged")}
	d := NewDeck(w.send, 1, "gm")
	assert.Nil(t, d.PlayNoise(deck.NoiseConfig{PlayOptions: deck.PlayOptions{Volume: 1}}))
}

func TestCloseReleasesLoopingNotes(t *testing.T) {
	w := &wire{}
	d := NewDeck(w.send, 1, "gm")

	c := d.PlayTone(deck.ToneConfig{NoiseConfig: deck.NoiseConfig{
		PlayOptions: deck.PlayOptions{Volume: 1, Loop: true},
		Duration:    0.001,
	}})
	require.NotNil(t, c)
	time.Sleep(10 * time.Millisecond)
	assert.Len(t, w.events(), 1, "looping notes hold")

	require.NoError(t, d.Close())
	<-c.Done()
	assert.Len(t, w.events(), 2)
}

func TestVelocity(t *testing.T) {
	assert.Equal(t, uint8(0), velocity(0))
	assert.Equal(t, uint8(1), velocity(0.001))
	assert.Equal(t, uint8(127), velocity(3))
}

func TestSlotForFrequency(t *testing.T) {
	assert.Equal(t, SlotKick, SlotForFrequency(60))
	assert.Equal(t, SlotSnare, SlotForFrequency(1046))
	assert.Equal(t, SlotClap, SlotForFrequency(1397))
	assert.Equal(t, SlotClosedHH, SlotForFrequency(1980))
	assert.Equal(t, SlotOpenHH, SlotForFrequency(8000))
	assert.Equal(t, []string{"gm", "rd8", "tr8s"}, KitNames())
}

func TestMatchPort(t *testing.T) {
	names := []string{"Midi Through Port-0", "IAC Driver Bus 1"}
	assert.Equal(t, 0, matchPort(names, ""))
	assert.Equal(t, 1, matchPort(names, "IAC Driver Bus 1"))
	assert.Equal(t, 1, matchPort(names, "iac"))
	assert.Equal(t, -1, matchPort(names, "launchpad"))
	assert.Equal(t, -1, matchPort(nil, ""))
}

func TestKeyboardPlaysThroughDeck(t *testing.T) {
	kb, err := NewKeyboard("test", nil)
	require.NoError(t, err)

	rec := deck.NewRecorder()
	var seen []NoteEvent
	done := make(chan struct{})
	go func() {
		kb.Play(context.Background(), rec, stave.Tone{}, func(ev NoteEvent) { seen = append(seen, ev) })
		close(done)
	}()

	kb.handle(gomidi.NoteOn(0, 69, 127))
	kb.handle(gomidi.NoteOff(0, 69))
	kb.handle(gomidi.ProgramChange(0, 3))
	require.Eventually(t, func() bool { return len(rec.Calls()) == 1 }, time.Second, time.Millisecond)

	require.NoError(t, kb.Close())
	<-done

	calls := rec.Calls()
	assert.InDelta(t, 440.0, calls[0].Frequency, 1e-9)
	assert.InDelta(t, 1.0, calls[0].Volume, 1e-9)
	require.Len(t, seen, 2)
	assert.True(t, seen[0].On)
	assert.False(t, seen[1].On)
}
