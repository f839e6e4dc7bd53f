package entity

import "testing"

func TestNormalizePair(t *testing.T) {
	tests := []struct {
		name       string
		inA, inB   int64
		outA, outB int64
	}{
		{"already ordered", 1, 2, 1, 2},
		{"reversed", 9, 3, 3, 9},
		{"equal", 5, 5, 5, 5},
		{"large ids", 1000000007, 42, 42, 1000000007},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := NormalizePair(tt.inA, tt.inB)
			if a != tt.outA || b != tt.outB {
				t.Errorf("NormalizePair(%d, %d) = (%d, %d), want (%d, %d)",
					tt.inA, tt.inB, a, b, tt.outA, tt.outB)
			}
		})
	}
}

func TestConversation_HasParticipant(t *testing.T) {
	conv := &Conversation{Id: 1, UserAId: 10, UserBId: 20}

	if !conv.HasParticipant(10) {
		t.Error("expected user A to be a participant")
	}
	if !conv.HasParticipant(20) {
		t.Error("expected user B to be a participant")
	}
	if conv.HasParticipant(30) {
		t.Error("expected user 30 to not be a participant")
	}
}

func TestConversation_PeerOf(t *testing.T) {
	conv := &Conversation{Id: 1, UserAId: 10, UserBId: 20}

	if got := conv.PeerOf(10); got != 20 {
		t.Errorf("PeerOf(10) = %d, want 20", got)
	}
	if got := conv.PeerOf(20); got != 10 {
		t.Errorf("PeerOf(20) = %d, want 10", got)
	}
	if got := conv.PeerOf(30); got != 0 {
		t.Errorf("PeerOf(30) = %d, want 0 for non-participant", got)
	}
}

func TestConversation_LastReadOf(t *testing.T) {
	conv := &Conversation{
		Id:            1,
		UserAId:       10,
		UserBId:       20,
		UserALastRead: 111,
		UserBLastRead: 222,
	}

	if got := conv.LastReadOf(10); got != 111 {
		t.Errorf("LastReadOf(10) = %d, want 111", got)
	}
	if got := conv.LastReadOf(20); got != 222 {
		t.Errorf("LastReadOf(20) = %d, want 222", got)
	}
	if got := conv.LastReadOf(30); got != 0 {
		t.Errorf("LastReadOf(30) = %d, want 0 for non-participant", got)
	}
}

func TestConversation_ToInfo(t *testing.T) {
	conv := &Conversation{
		Id:            7,
		UserAId:       10,
		UserBId:       20,
		LastMessageAt: 500,
		UserALastRead: 111,
		UserBLastRead: 222,
		CreatedAt:     100,
	}

	info := conv.ToInfo(10)
	if info.Id != 7 {
		t.Errorf("Id = %d, want 7", info.Id)
	}
	if info.PeerUserId != 20 {
		t.Errorf("PeerUserId = %d, want 20", info.PeerUserId)
	}
	if info.LastRead != 111 {
		t.Errorf("LastRead = %d, want 111", info.LastRead)
	}
	if info.LastMessageAt != 500 {
		t.Errorf("LastMessageAt = %d, want 500", info.LastMessageAt)
	}

	// Same conversation viewed by the other participant.
	info = conv.ToInfo(20)
	if info.PeerUserId != 10 {
		t.Errorf("PeerUserId = %d, want 10", info.PeerUserId)
	}
	if info.LastRead != 222 {
		t.Errorf("LastRead = %d, want 222", info.LastRead)
	}
}
