package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatus_LabelCoversEveryStatus(t *testing.T) {
	labels := map[Status]string{
		StatusApplied:   "Applied",
		StatusInterview: "Interview",
		StatusTest:      "Test",
		StatusOffer:     "Offer",
		StatusRejected:  "Rejected",
		StatusCanceled:  "Canceled",
	}
	require.Len(t, AllStatuses, len(labels))
	for _, status := range AllStatuses {
		require.Equal(t, labels[status], status.Label())
	}
}

func TestStatus_LabelPanicsOnUnknown(t *testing.T) {
	require.Panics(t, func() { _ = Status("ghosted").Label() })
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("")
	require.NoError(t, err)
	require.Equal(t, StatusApplied, status)

	status, err = ParseStatus("offer")
	require.NoError(t, err)
	require.Equal(t, StatusOffer, status)

	_, err = ParseStatus("Offer")
	require.Error(t, err)
	_, err = ParseStatus("all")
	require.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-12-30")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2024-02-30")
	require.Error(t, err)
	_, err = ParseDate("30/12/2024")
	require.Error(t, err)
}

func TestCalendarDate(t *testing.T) {
	in := time.Date(2025, 3, 9, 23, 30, 0, 0, time.UTC)
	require.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), CalendarDate(in))
}

func TestInitials(t *testing.T) {
	require.Equal(t, "??", Initials(""))
	require.Equal(t, "??", Initials("   "))
	require.Equal(t, "AL", Initials("ada lovelace"))
	require.Equal(t, "AL", Initials("Ada King Lovelace"))
	require.Equal(t, "AD", Initials("ada"))
	require.Equal(t, "A", Initials("a"))
}

func TestPasswordReset_Usable(t *testing.T) {
	now := time.Now()
	reset := &PasswordReset{ExpiresAt: now.Add(time.Hour)}
	require.True(t, reset.Usable(now))
	require.False(t, reset.Usable(now.Add(2*time.Hour)))

	used := now
	reset.UsedAt = &used
	require.False(t, reset.Usable(now))
}

func TestStatus_UnmarshalText(t *testing.T) {
	var s Status
	require.NoError(t, s.UnmarshalText([]byte("rejected")))
	require.Equal(t, StatusRejected, s)
	require.Error(t, s.UnmarshalText([]byte("pending")))
	require.Equal(t, StatusRejected, s)
}
