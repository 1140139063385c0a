package rabbit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"marketplace-bidding-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memNotificationRepo struct {
	saved []*model.Notification
}

func (m *memNotificationRepo) Insert(_ context.Context, n *model.Notification) error {
	m.saved = append(m.saved, n)
	return nil
}

func (m *memNotificationRepo) FindByRecipient(_ context.Context, recipientID primitive.ObjectID, recipientType string) ([]*model.Notification, error) {
	var out []*model.Notification
	for _, n := range m.saved {
		if n.RecipientID == recipientID && n.RecipientType == recipientType {
			out = append(out, n)
		}
	}
	return out, nil
}

func TestHandlePersistsNotification(t *testing.T) {
	repo := &memNotificationRepo{}
	consumer := NewNotificationConsumer(repo)

	recipient := primitive.NewObjectID()
	product := primitive.NewObjectID()
	msg := NotificationMessage{
		EventID:       "evt-1",
		Type:          "bid_placed",
		RecipientID:   recipient.Hex(),
		RecipientType: model.BidderKindShop,
		ProductID:     product.Hex(),
		Amount:        120,
		Message:       "Nueva oferta de 120.00",
		Timestamp:     time.Now().UTC(),
	}
	body, err := json.Marshal(msg)
	require.NoError(t, err)

	require.NoError(t, consumer.Handle(body))
	require.Len(t, repo.saved, 1)

	n := repo.saved[0]
	assert.Equal(t, "evt-1", n.EventID)
	assert.Equal(t, recipient, n.RecipientID)
	assert.Equal(t, model.BidderKindShop, n.RecipientType)
	assert.Equal(t, product, n.ProductID)
	assert.True(t, n.BidID.IsZero(), "sin bid referenciado")
	assert.Equal(t, 120.0, n.Amount)
}

func TestHandleRejectsBadMessages(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"json roto", []byte("{{{")},
		{"recipient inválido", []byte(`{"event_id":"e","type":"outbid","recipient_id":"no-es-hex"}`)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &memNotificationRepo{}
			consumer := NewNotificationConsumer(repo)
			require.Error(t, consumer.Handle(tc.body))
			assert.Empty(t, repo.saved)
		})
	}
}
