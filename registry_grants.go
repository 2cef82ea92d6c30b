package cardgate

import (
	"github.com/cardgate/cardgate/card"
)

// IssueGrant signs a short-lived grant for the bound card, for offline
// verification by door controllers. Requires token support to be enabled
// through [Builder.Build]; otherwise fails with [ErrTokenDisabled].
func (r *Registry) IssueGrant(cardID uint16) (string, error) {
	if r.tokens == nil {
		return "", ErrTokenDisabled
	}

	c, ok := r.Get(cardID)
	if !ok {
		return "", ErrCardNotFound
	}

	grant, err := r.tokens.Issue(c)
	if err != nil {
		return "", err
	}

	r.metrics.Inc(MetricTokenIssued)
	r.emit(eventTokenIssued, cardID, true, nil, nil)
	return grant, nil
}

// VerifyGrant validates a grant and reconstructs the Card it was issued for.
// The card need not still be bound: grants exist precisely so a controller
// can decide without the registry. Callers who require liveness should
// follow up with [Registry.Contains].
func (r *Registry) VerifyGrant(grant string) (card.Card, error) {
	if r.tokens == nil {
		return card.Card{}, ErrTokenDisabled
	}

	c, err := r.tokens.Verify(grant)
	if err != nil {
		r.metrics.Inc(MetricTokenRejected)
		return card.Card{}, err
	}
	return c, nil
}
