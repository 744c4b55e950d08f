package protocol

import "testing"

func TestMessageConstants(t *testing.T) {
	if MsgHello != "hello" {
		t.Fatalf("MsgHello = %q, want %q", MsgHello, "hello")
	}
	if MsgCommand != "command" {
		t.Fatalf("MsgCommand = %q, want %q", MsgCommand, "command")
	}
	if MsgWelcome != "welcome" {
		t.Fatalf("MsgWelcome = %q, want %q", MsgWelcome, "welcome")
	}
	if MsgState != "state" {
		t.Fatalf("MsgState = %q, want %q", MsgState, "state")
	}
}

func TestCommandRoundTrip(t *testing.T) {
	b, err := Encode(MsgCommand, Command{Verb: VerbPause})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.T != MsgCommand {
		t.Fatalf("envelope type = %q, want %q", env.T, MsgCommand)
	}
	cmd, err := DecodePayload[Command](env)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if cmd.Verb != VerbPause {
		t.Fatalf("verb = %q, want %q", cmd.Verb, VerbPause)
	}
}

func TestStateRoundTripKeepsRankings(t *testing.T) {
	in := State{
		Round:    2,
		Rounds:   6,
		Paused:   true,
		Distance: 1600,
		Racing:   []int{1, 4, 9},
		Lanes: []LaneSnapshot{
			{ID: 1, Distance: 42.5},
			{ID: 4, Distance: 101.2, Rank: 1, Finished: true, Elapsed: "9.314s"},
		},
		Results: []ResultSnapshot{
			{Distance: 1200, StartedAt: 1700000000000, Rankings: []RankingSnapshot{
				{ID: 4, Rank: 1, Elapsed: "9.314s"},
				{ID: 1, Rank: 2, Elapsed: "10.022s"},
			}},
		},
	}

	b, err := Encode(MsgState, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	out, err := DecodePayload[State](env)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if out.Round != 2 || out.Distance != 1600 || !out.Paused {
		t.Fatalf("engine flags lost: %+v", out)
	}
	if len(out.Results) != 1 || len(out.Results[0].Rankings) != 2 {
		t.Fatalf("rankings lost: %+v", out.Results)
	}
	if out.Results[0].Rankings[0].Rank != 1 || out.Results[0].Rankings[1].ID != 1 {
		t.Fatalf("ranking order lost: %+v", out.Results[0].Rankings)
	}
}

func TestDecodeRejectsEmpty(t *testing.T) {
	if _, err := DecodeEnvelope(nil); err == nil {
		t.Fatalf("expected error for empty envelope")
	}
	if _, err := DecodePayload[Command](Envelope{T: MsgCommand}); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, err := Encode("", Command{}); err == nil {
		t.Fatalf("expected error for empty type")
	}
}
