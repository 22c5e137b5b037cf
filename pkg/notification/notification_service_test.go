package notification

import (
	"Supermarket-Vision-Backend/domain"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentIsBoundedAndNewestFirst(t *testing.T) {
	svc := NewNotificationService(3)
	for i := 1; i <= 5; i++ {
		svc.Notify(fmt.Sprintf("n%d", i), "", "")
	}

	recent := svc.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "n5", recent[0].Title)
	assert.Equal(t, "n3", recent[2].Title)
	assert.Equal(t, domain.VariantDefault, recent[0].Variant)

	assert.Len(t, svc.Recent(2), 2)
}

func TestSubscribe(t *testing.T) {
	svc := NewNotificationService(0)
	ch, cancel := svc.Subscribe()

	svc.Notify("Camera Error", "permission denied", domain.VariantDestructive)

	n := <-ch
	assert.Equal(t, "Camera Error", n.Title)
	assert.Equal(t, domain.VariantDestructive, n.Variant)
	assert.NotEmpty(t, n.ID)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)

	svc.Notify("after", "", "")
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	svc := NewNotificationService(0)
	_, cancel := svc.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBacklog*2; i++ {
		svc.Notify("tick", "", "")
	}
	assert.Len(t, svc.Recent(0), subscriberBacklog*2)
}
