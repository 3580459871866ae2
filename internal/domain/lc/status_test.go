package lc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo_ForwardOnly(t *testing.T) {
	for i, from := range Lifecycle {
		for j, to := range Lifecycle {
			if j < i {
				assert.Falsef(t, from.CanTransitionTo(to), "%s -> %s must be rejected", from, to)
			}
		}
	}
}

func TestCanTransitionTo_Table(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusCreated, StatusAwaitingAdminReview, true},
		{StatusAwaitingExporterDocs, StatusAwaitingAdminReview, true},
		{StatusCreated, StatusOnchain, false},
		{StatusAwaitingAdminReview, StatusOnchain, true},
		{StatusAwaitingAdminReview, StatusAwaitingAdminReview, false},
		{StatusOnchain, StatusShipmentInitiated, true},
		{StatusOnchain, StatusShipmentCompleted, true},
		{StatusOnchain, StatusOnchain, false},
		{StatusShipmentInitiated, StatusShipmentInitiated, true},
		{StatusShipmentInitiated, StatusShipmentCompleted, true},
		{StatusShipmentInTransit, StatusShipmentInitiated, false},
		{StatusShipmentCompleted, StatusShipmentInTransit, false},
		{StatusShipmentCompleted, StatusShipmentCompleted, true},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStatus_RankAndFlags(t *testing.T) {
	assert.Equal(t, 0, StatusCreated.Rank())
	assert.Equal(t, 6, StatusShipmentCompleted.Rank())
	assert.Equal(t, -1, Status("REJECTED").Rank())
	assert.True(t, StatusShipmentCompleted.Terminal())
	assert.False(t, StatusOnchain.Terminal())
	assert.True(t, StatusShipmentInTransit.InShipment())
	assert.False(t, StatusOnchain.InShipment())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("ONCHAIN")
	require.NoError(t, err)
	assert.Equal(t, StatusOnchain, s)

	_, err = ParseStatus("onchain")
	assert.True(t, errors.Is(err, ErrInvalidStatus))
}

func TestShipmentPhase_LCStatus(t *testing.T) {
	for phase, want := range map[ShipmentPhase]Status{
		PhaseInitiated: StatusShipmentInitiated,
		PhaseInTransit: StatusShipmentInTransit,
		PhaseCompleted: StatusShipmentCompleted,
	} {
		got, err := phase.LCStatus()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParsePhase("DELIVERED")
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestFindDocument(t *testing.T) {
	l := &LC{}
	_, ok := l.FindDocument("d1")
	assert.False(t, ok)

	l.ExporterDocs = &ExporterDocuments{Documents: []Document{{ID: "d1", Name: "invoice.pdf"}}}
	d, ok := l.FindDocument("d1")
	require.True(t, ok)
	assert.Equal(t, "invoice.pdf", d.Name)
}
