package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/job-tracker/internal/domain"
)

func sample() []domain.Application {
	return []domain.Application{
		{ID: "1", JobTitle: "Engineer", Company: "Acme", Status: domain.StatusApplied, Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		{ID: "2", JobTitle: "Manager", Company: "Globex", Status: domain.StatusOffer, Date: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)},
	}
}

func ids(apps []domain.Application) []string {
	out := make([]string, 0, len(apps))
	for _, app := range apps {
		out = append(out, app.ID)
	}
	return out
}

func TestApply_StatusOnly(t *testing.T) {
	got := Apply(sample(), Criteria{Status: "offer"})
	require.Equal(t, []string{"2"}, ids(got))
}

func TestApply_AllWithText(t *testing.T) {
	got := Apply(sample(), Criteria{Status: "all", Query: "eng"})
	require.Equal(t, []string{"1"}, ids(got))

	got = Apply(sample(), Criteria{Status: "all", Query: "  ENG "})
	require.Equal(t, []string{"1"}, ids(got))
}

func TestApply_AndSemantics(t *testing.T) {
	got := Apply(sample(), Criteria{Status: "offer", Query: "engineer"})
	require.Empty(t, got)
	require.NotNil(t, got)
}

func TestApply_BlankQueryPassesEverything(t *testing.T) {
	require.Equal(t, []string{"1", "2"}, ids(Apply(sample(), Criteria{Status: "all", Query: "   "})))
	require.Equal(t, []string{"1", "2"}, ids(Apply(sample(), Criteria{})))
}

func TestApply_MatchesLocationAndStatusLabel(t *testing.T) {
	apps := sample()
	apps[0].Location = "Berlin"
	require.Equal(t, []string{"1"}, ids(Apply(apps, Criteria{Query: "berl"})))
	require.Equal(t, []string{"2"}, ids(Apply(apps, Criteria{Query: "Offer"})))
	require.Equal(t, []string{"1"}, ids(Apply(apps, Criteria{Query: "applied"})))
	require.Equal(t, []string{"2"}, ids(Apply(apps, Criteria{Query: "glob"})))
}

func TestApply_UnknownStatusKeepsNothing(t *testing.T) {
	require.Empty(t, Apply(sample(), Criteria{Status: "Offer"}))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	apps := sample()
	got := Apply(apps, Criteria{Status: "all"})
	got[0].JobTitle = "changed"
	require.Equal(t, "Engineer", apps[0].JobTitle)
	require.Len(t, apps, 2)
}

func TestByMonth(t *testing.T) {
	got, err := ByMonth(sample(), "2025-02")
	require.NoError(t, err)
	require.Equal(t, []string{"2"}, ids(got))

	got, err = ByMonth(sample(), "all")
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = ByMonth(sample(), "2024-02")
	require.NoError(t, err)
	require.Empty(t, got)

	_, err = ByMonth(sample(), "feb")
	require.Error(t, err)
}
