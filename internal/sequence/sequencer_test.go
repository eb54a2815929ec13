package sequence

import (
	"context"
	"errors"
	"testing"

	"github.com/mkessler/faktura/internal/domain"
)

// mock history lookup
type mockHistory struct {
	numbers map[string]string // senderID+"-"+type -> last number
	err     error
	calls   int
}

func (m *mockHistory) FindLastNumber(ctx context.Context, senderID string, typ domain.InvoiceType) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.numbers[senderID+"-"+string(typ)], nil
}

var sender = domain.Party{ID: "AB", Name: "Anna Beispiel"}

func TestNextFirstInvoice(t *testing.T) {
	seq := New(&mockHistory{})

	got, err := seq.Next(context.Background(), sender, domain.TypeRegular, "")
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if got != "AB-RE-0001" {
		t.Errorf("expected AB-RE-0001, got %s", got)
	}
}

func TestNextIncrementsHistory(t *testing.T) {
	history := &mockHistory{numbers: map[string]string{"AB-RE": "AB-RE-0042"}}
	seq := New(history)

	got, err := seq.Next(context.Background(), sender, domain.TypeRegular, "")
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if got != "AB-RE-0043" {
		t.Errorf("expected AB-RE-0043, got %s", got)
	}
}

func TestNextExplicitLastSkipsHistory(t *testing.T) {
	history := &mockHistory{numbers: map[string]string{"AB-RE": "AB-RE-0001"}}
	seq := New(history)

	got, err := seq.Next(context.Background(), sender, domain.TypeRegular, "AB-RE-0007")
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if got != "AB-RE-0008" {
		t.Errorf("expected AB-RE-0008, got %s", got)
	}
	if history.calls != 0 {
		t.Errorf("expected no history lookup, got %d calls", history.calls)
	}
}

func TestSequenceIndependencePerType(t *testing.T) {
	history := &mockHistory{numbers: map[string]string{"AB-RE": "AB-RE-0099"}}
	seq := New(history)

	got, err := seq.Next(context.Background(), sender, domain.TypeCancellation, "")
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if got != "AB-ST-0001" {
		t.Errorf("ST sequence must not consume RE history, got %s", got)
	}
}

func TestNextRejectsMalformedNumbers(t *testing.T) {
	tests := []string{
		"ABC",
		"A-B-12",
		"A-B-123",
		"A-B-12345",
		"A-B-12AB",
		"-0001",
	}
	seq := New(&mockHistory{})

	for _, last := range tests {
		_, err := seq.Next(context.Background(), sender, domain.TypeRegular, last)
		if !errors.Is(err, domain.ErrMalformedNumber) {
			t.Errorf("last %q: expected ErrMalformedNumber, got %v", last, err)
		}
	}
}

func TestNextMultiDashSenderID(t *testing.T) {
	seq := New(&mockHistory{})

	got, err := seq.Next(context.Background(), sender, domain.TypeRegular, "AB-X-RE-0009")
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if got != "AB-RE-0010" {
		t.Errorf("expected AB-RE-0010, got %s", got)
	}
}

func TestNextOverflow(t *testing.T) {
	seq := New(&mockHistory{})

	_, err := seq.Next(context.Background(), sender, domain.TypeRegular, "AB-RE-9999")
	if !errors.Is(err, domain.ErrSequenceOverflow) {
		t.Errorf("expected ErrSequenceOverflow, got %v", err)
	}
}

func TestNextPropagatesLookupErrors(t *testing.T) {
	wantErr := errors.New("ledger unavailable")
	seq := New(&mockHistory{err: wantErr})

	_, err := seq.Next(context.Background(), sender, domain.TypeRegular, "")
	if !errors.Is(err, wantErr) {
		t.Errorf("expected lookup error to propagate, got %v", err)
	}
}
