// Package sequence derives invoice numbers of the form
// <senderID>-<type>-<4-digit sequence>. Regular and cancellation
// sequences are independent per sender.
package sequence

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mkessler/faktura/internal/domain"
)

// HistoryLookup returns the most recently issued invoice number for a
// sender and type. An empty string with a nil error means no prior invoice.
type HistoryLookup interface {
	FindLastNumber(ctx context.Context, senderID string, typ domain.InvoiceType) (string, error)
}

var numberPattern = regexp.MustCompile(`^.+-.+-\d{4}$`)

// Sequencer is the sole authority for producing the next invoice number.
type Sequencer struct {
	history HistoryLookup
}

// New creates a Sequencer backed by the given history lookup.
func New(history HistoryLookup) *Sequencer {
	return &Sequencer{history: history}
}

// Next returns the next invoice number for the sender and type.
//
// When explicitLast is empty the history lookup is consulted; no prior
// record seeds the sequence at 0001. Within a batch the caller must pass
// the previously minted number as explicitLast instead of re-querying,
// so allocation stays gap-free before anything is persisted.
func (s *Sequencer) Next(ctx context.Context, sender domain.Party, typ domain.InvoiceType, explicitLast string) (string, error) {
	last := explicitLast
	if last == "" {
		found, err := s.history.FindLastNumber(ctx, sender.ID, typ)
		if err != nil {
			return "", err
		}
		last = found
	}
	if last == "" {
		return fmt.Sprintf("%s-%s-0001", sender.ID, typ), nil
	}

	// Never reinterpret an ambiguous number: colliding invoice numbers
	// are worse than stopping the batch.
	if !numberPattern.MatchString(last) {
		return "", fmt.Errorf("%w: %q", domain.ErrMalformedNumber, last)
	}

	parts := strings.Split(last, "-")
	seq, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrMalformedNumber, last)
	}
	seq++
	if seq > 9999 {
		return "", fmt.Errorf("%w: after %q", domain.ErrSequenceOverflow, last)
	}

	return fmt.Sprintf("%s-%s-%04d", sender.ID, typ, seq), nil
}
