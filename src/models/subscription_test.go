package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionValidate(t *testing.T) {
	pubID := 1
	jourID := 2

	tests := []struct {
		name string
		sub  Subscription
		err  error
	}{
		{"publication only", Subscription{SubscriberID: 5, PublicationID: &pubID}, nil},
		{"journalist only", Subscription{SubscriberID: 5, JournalistID: &jourID}, nil},
		{"neither", Subscription{SubscriberID: 5}, ErrSubscriptionNoTarget},
		{"both", Subscription{SubscriberID: 5, PublicationID: &pubID, JournalistID: &jourID}, ErrSubscriptionBothTarget},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.sub.Validate()
			if test.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, test.err)
			}
		})
	}
}
