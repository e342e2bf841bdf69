package playback

import (
	"testing"
	"testing/synctest"
)

func TestNewSubscription_ChannelsReadable(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sub := newSubscription()

		sub.sendState(StateChange{Previous: StateStopped, Current: StatePlaying})
		sub.sendTrack(TrackChange{Index: 1})
		sub.sendPosition(PositionChange{Position: 30, Line: 4})
		sub.sendQueue(QueueChange{Index: 2, Tracks: []Track{{URL: "/music/queue.mp3"}}})
		sub.sendMode(ModeChange{Loop: true, Shuffle: true})
		sub.sendLyrics(LyricsChange{Source: "manual", Lines: 3})
		sub.sendNotice(Notice{Message: "boom"})

		e := <-sub.StateChanged
		if e.Current != StatePlaying {
			t.Errorf("StateChanged.Current = %v, want Playing", e.Current)
		}

		tr := <-sub.TrackChanged
		if tr.Index != 1 {
			t.Errorf("TrackChanged.Index = %d, want 1", tr.Index)
		}

		pos := <-sub.PositionChanged
		if pos.Position != 30 || pos.Line != 4 {
			t.Errorf("PositionChanged = %+v, want {30 4}", pos)
		}

		q := <-sub.QueueChanged
		if len(q.Tracks) != 1 || q.Tracks[0].URL != "/music/queue.mp3" {
			t.Errorf("QueueChanged.Tracks = %v", q.Tracks)
		}

		m := <-sub.ModeChanged
		if !m.Loop || !m.Shuffle {
			t.Errorf("ModeChanged = %+v, want loop and shuffle", m)
		}

		l := <-sub.LyricsChanged
		if l.Lines != 3 {
			t.Errorf("LyricsChanged.Lines = %d, want 3", l.Lines)
		}

		n := <-sub.Notices
		if n.Message != "boom" {
			t.Errorf("Notice.Message = %q, want boom", n.Message)
		}

		<-sub.Changed
	})
}

func TestSubscription_Close_SignalsDone(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		sub := newSubscription()
		sub.close()
		<-sub.Done
	})
}

func TestSubscription_NonBlocking_DropsWhenFull(t *testing.T) {
	sub := newSubscription()

	// Fill buffer
	for range eventBufferSize + 5 {
		sub.sendState(StateChange{})
	}

	// Should not block or panic - count what we got
	count := 0
	for {
		select {
		case <-sub.StateChanged:
			count++
		default:
			goto done
		}
	}
done:
	if count != eventBufferSize {
		t.Errorf("received %d events, want %d (buffer size)", count, eventBufferSize)
	}
}

func TestSubscription_ChangedCoalesces(t *testing.T) {
	sub := newSubscription()

	sub.sendQueue(QueueChange{})
	sub.sendMode(ModeChange{})
	sub.sendPosition(PositionChange{})

	<-sub.Changed
	select {
	case <-sub.Changed:
		t.Error("Changed should hold a single pending signal")
	default:
	}
}
