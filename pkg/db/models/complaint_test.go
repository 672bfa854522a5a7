package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halisahar-connect/civic-portal/pkg/enums"
)

func TestComplaintApplyStatusSolvedStampsResolvedAt(t *testing.T) {
	now := time.Date(2024, 1, 18, 10, 0, 0, 0, time.UTC)
	note := "Fixed"
	c := &Complaint{Status: enums.ComplaintStatusPending}

	c.ApplyStatus(enums.ComplaintStatusSolved, nil, &note, now)

	require.NotNil(t, c.ResolvedAt)
	assert.True(t, c.ResolvedAt.Equal(now))
	assert.Equal(t, "Fixed", c.ResolutionNote)
}

func TestComplaintApplyStatusAwayFromSolvedKeepsEvidence(t *testing.T) {
	now := time.Date(2024, 1, 18, 10, 0, 0, 0, time.UTC)
	note := "Fixed"
	image := "https://img/after.jpg"
	c := &Complaint{}
	c.ApplyStatus(enums.ComplaintStatusSolved, &image, &note, now)

	c.ApplyStatus(enums.ComplaintStatusInProgress, nil, nil, now.Add(time.Hour))

	assert.Nil(t, c.ResolvedAt)
	assert.Equal(t, "Fixed", c.ResolutionNote)
	assert.Equal(t, image, c.SolutionImageURL)
	assert.Equal(t, enums.ComplaintStatusInProgress, c.Status)
}

func TestComplaintApplyStatusNonSolvedAlwaysClears(t *testing.T) {
	c := &Complaint{}
	c.ApplyStatus(enums.ComplaintStatusPending, nil, nil, time.Now())
	assert.Nil(t, c.ResolvedAt)
}

func TestUserPromoteToAdmin(t *testing.T) {
	u := &User{Role: enums.RoleCitizen}
	u.PromoteToAdmin()

	assert.True(t, u.IsAdmin())
	assert.True(t, u.IsVerified)
	assert.True(t, u.IsProfileComplete)
}
