package complaints

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halisahar-connect/civic-portal/pkg/enums"
	pkgerrors "github.com/halisahar-connect/civic-portal/pkg/errors"
	"github.com/halisahar-connect/civic-portal/pkg/metrics"
)

func newTestService(t *testing.T, now time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:    newTestRepo(t),
		Metrics: metrics.NewDomainMetrics(prometheus.NewRegistry()),
		Now:     func() time.Time { return now },
	})
	require.NoError(t, err)
	return svc
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string { return &v }

func garbageInput() CreateInput {
	return CreateInput{
		Category:   enums.ComplaintCategoryGarbage,
		WardNumber: 5,
		Latitude:   floatPtr(22.9),
		Longitude:  floatPtr(88.4),
		Address:    "X",
		ImageURLs:  []string{"u1"},
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.Error(t, err)
}

func TestCreateForcesPendingAndOwner(t *testing.T) {
	svc := newTestService(t, time.Now().UTC())
	caller := uuid.New()

	complaint, err := svc.Create(context.Background(), caller, garbageInput())
	require.NoError(t, err)
	assert.Equal(t, enums.ComplaintStatusPending, complaint.Status)
	assert.Nil(t, complaint.ResolvedAt)
	assert.Equal(t, caller, complaint.UserID)
	assert.Equal(t, "u1", complaint.ImageURL)
}

func TestCreateKeepsImageOrder(t *testing.T) {
	svc := newTestService(t, time.Now().UTC())
	input := garbageInput()
	input.ImageURLs = []string{"a", "b", "c"}

	complaint, err := svc.Create(context.Background(), uuid.New(), input)
	require.NoError(t, err)
	assert.Equal(t, "a", complaint.ImageURL)
	assert.Equal(t, []string{"a", "b", "c"}, []string(complaint.ImageURLs))
}

func TestCreateDerivesListFromSingleImage(t *testing.T) {
	svc := newTestService(t, time.Now().UTC())
	input := garbageInput()
	input.ImageURLs = nil
	input.ImageURL = "only"

	complaint, err := svc.Create(context.Background(), uuid.New(), input)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, []string(complaint.ImageURLs))
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t, time.Now().UTC())
	cases := map[string]struct {
		mutate func(*CreateInput)
		field  string
	}{
		"bad category":      {func(in *CreateInput) { in.Category = "potholes" }, "category"},
		"missing latitude":  {func(in *CreateInput) { in.Latitude = nil }, "latitude"},
		"missing address":   {func(in *CreateInput) { in.Address = " " }, "address"},
		"ward out of range": {func(in *CreateInput) { in.WardNumber = 26 }, "wardNumber"},
		"no images":         {func(in *CreateInput) { in.ImageURLs = nil }, "imageUrl"},
		"too many images":   {func(in *CreateInput) { in.ImageURLs = []string{"1", "2", "3", "4", "5"} }, "imageUrls"},
		"primary mismatch":  {func(in *CreateInput) { in.ImageURL = "other" }, "imageUrl"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			input := garbageInput()
			tc.mutate(&input)
			_, err := svc.Create(context.Background(), uuid.New(), input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			details, ok := typed.Details().(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tc.field)
		})
	}
}

func TestListByUserOnlyReturnsOwn(t *testing.T) {
	svc := newTestService(t, time.Now().UTC())
	ctx := context.Background()
	me, other := uuid.New(), uuid.New()
	_, err := svc.Create(ctx, me, garbageInput())
	require.NoError(t, err)
	_, err = svc.Create(ctx, other, garbageInput())
	require.NoError(t, err)

	list, err := svc.ListByUser(ctx, me)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, me, list[0].UserID)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	now := time.Now().UTC().Add(time.Minute)
	svc := newTestService(t, now)
	ctx := context.Background()
	created, err := svc.Create(ctx, uuid.New(), garbageInput())
	require.NoError(t, err)

	solved, err := svc.UpdateStatus(ctx, created.ID, UpdateStatusInput{
		Status:           enums.ComplaintStatusSolved,
		ResolutionNote:   strPtr("Fixed"),
		SolutionImageURL: strPtr("https://img/after"),
	})
	require.NoError(t, err)
	require.NotNil(t, solved.ResolvedAt)
	assert.True(t, solved.ResolvedAt.Equal(now))
	assert.False(t, solved.ResolvedAt.Before(solved.CreatedAt))
	assert.Equal(t, "Fixed", solved.ResolutionNote)

	reopened, err := svc.UpdateStatus(ctx, created.ID, UpdateStatusInput{Status: enums.ComplaintStatusInProgress})
	require.NoError(t, err)
	assert.Nil(t, reopened.ResolvedAt)
	assert.Equal(t, "Fixed", reopened.ResolutionNote)
	assert.Equal(t, "https://img/after", reopened.SolutionImageURL)

	// any status may follow any other
	back, err := svc.UpdateStatus(ctx, created.ID, UpdateStatusInput{Status: enums.ComplaintStatusPending})
	require.NoError(t, err)
	assert.Equal(t, enums.ComplaintStatusPending, back.Status)
}

func TestUpdateStatusErrors(t *testing.T) {
	svc := newTestService(t, time.Now().UTC())
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, uuid.New(), UpdateStatusInput{Status: "closed"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.UpdateStatus(ctx, uuid.New(), UpdateStatusInput{Status: enums.ComplaintStatusSolved})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListAllRejectsBadFilter(t *testing.T) {
	svc := newTestService(t, time.Now().UTC())
	ward := 0
	_, err := svc.ListAll(context.Background(), ListFilter{WardNumber: &ward})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestStats(t *testing.T) {
	svc := newTestService(t, time.Now().UTC())
	ctx := context.Background()
	me := uuid.New()

	first, err := svc.Create(ctx, me, garbageInput())
	require.NoError(t, err)
	_, err = svc.Create(ctx, me, garbageInput())
	require.NoError(t, err)
	_, err = svc.Create(ctx, uuid.New(), garbageInput())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, first.ID, UpdateStatusInput{Status: enums.ComplaintStatusSolved})
	require.NoError(t, err)

	mine, err := svc.Stats(ctx, &me)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 2, Pending: 1, Solved: 1}, *mine)

	all, err := svc.Stats(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
}
