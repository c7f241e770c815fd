package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	t.Parallel()

	for _, d := range Weekdays() {
		day, err := ParseWeekday(string(d))
		require.NoError(t, err)
		assert.Equal(t, d, day)
	}

	for _, bad := range []string{"", "monday", "MONDAY", "Mon", "Funday"} {
		_, err := ParseWeekday(bad)
		assert.ErrorIs(t, err, ErrInvalidWeekday, "input %q", bad)
	}
}

func TestParseDayOperation(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"push", "pull", "replace"} {
		op, err := ParseDayOperation(s)
		require.NoError(t, err)
		assert.Equal(t, DayOperation(s), op)
	}

	for _, bad := range []string{"", "Push", "append", "delete"} {
		_, err := ParseDayOperation(bad)
		assert.ErrorIs(t, err, ErrInvalidDayOperation, "input %q", bad)
	}
}

func TestEmptyWeek(t *testing.T) {
	t.Parallel()

	days := EmptyWeek[WorkoutItem]()
	require.Len(t, days, 7)
	for _, d := range Weekdays() {
		bucket, ok := days[d]
		require.True(t, ok, "missing bucket for %s", d)
		assert.NotNil(t, bucket)
		assert.Empty(t, bucket)
	}
}

func TestApplyDayOperation_Push(t *testing.T) {
	t.Parallel()

	days := EmptyWeek[WorkoutItem]()
	squat := WorkoutItem{Name: "Squat", Sets: 5, Reps: 5}
	bench := WorkoutItem{Name: "Bench Press", Sets: 3, Reps: 8}

	days, err := ApplyDayOperation(days, Monday, OpPush, []WorkoutItem{squat})
	require.NoError(t, err)
	days, err = ApplyDayOperation(days, Monday, OpPush, []WorkoutItem{bench})
	require.NoError(t, err)

	require.Len(t, days[Monday], 2)
	assert.Equal(t, "Squat", days[Monday][0].Name)
	assert.Equal(t, "Bench Press", days[Monday][1].Name)

	// Duplicates are allowed; push never deduplicates.
	days, err = ApplyDayOperation(days, Monday, OpPush, []WorkoutItem{squat})
	require.NoError(t, err)
	assert.Len(t, days[Monday], 3)

	// Other buckets are untouched.
	assert.Empty(t, days[Tuesday])
}

func TestApplyDayOperation_Pull(t *testing.T) {
	t.Parallel()

	days := EmptyWeek[Meal]()
	days[Wednesday] = []Meal{
		{Name: "Breakfast"},
		{Name: "Lunch"},
		{Name: "Breakfast"}, // duplicate key
		{Name: "Dinner"},
	}

	// Pull removes every occurrence of the matching keys; other fields of
	// the pulled items are ignored.
	days, err := ApplyDayOperation(days, Wednesday, OpPull, []Meal{{Name: "Breakfast", Comment: "ignored"}})
	require.NoError(t, err)
	require.Len(t, days[Wednesday], 2)
	assert.Equal(t, "Lunch", days[Wednesday][0].Name)
	assert.Equal(t, "Dinner", days[Wednesday][1].Name)

	// Pulling a key that is not present is a no-op, not an error.
	days, err = ApplyDayOperation(days, Wednesday, OpPull, []Meal{{Name: "Snack"}})
	require.NoError(t, err)
	assert.Len(t, days[Wednesday], 2)

	// Pulling from an empty bucket is a no-op too.
	days, err = ApplyDayOperation(days, Sunday, OpPull, []Meal{{Name: "Lunch"}})
	require.NoError(t, err)
	assert.Empty(t, days[Sunday])
}

func TestApplyDayOperation_Replace(t *testing.T) {
	t.Parallel()

	days := EmptyWeek[WorkoutItem]()
	days[Friday] = []WorkoutItem{{Name: "Deadlift"}, {Name: "Row"}}

	replacement := []WorkoutItem{{Name: "Sprint", Sets: 10, Reps: 1}}
	days, err := ApplyDayOperation(days, Friday, OpReplace, replacement)
	require.NoError(t, err)
	require.Len(t, days[Friday], 1)
	assert.Equal(t, "Sprint", days[Friday][0].Name)

	// Replaying the same replace converges on the same state.
	days, err = ApplyDayOperation(days, Friday, OpReplace, replacement)
	require.NoError(t, err)
	assert.Len(t, days[Friday], 1)

	// Replace with nil clears the bucket but keeps it present.
	days, err = ApplyDayOperation(days, Friday, OpReplace, nil)
	require.NoError(t, err)
	bucket, ok := days[Friday]
	require.True(t, ok)
	assert.Empty(t, bucket)
}

func TestApplyDayOperation_InvalidWeekday(t *testing.T) {
	t.Parallel()

	days := EmptyWeek[WorkoutItem]()
	days[Monday] = []WorkoutItem{{Name: "Squat"}}

	_, err := ApplyDayOperation(days, Weekday("Funday"), OpPush, []WorkoutItem{{Name: "Curl"}})
	require.ErrorIs(t, err, ErrInvalidWeekday)

	// The rejected operation must not have touched any bucket.
	require.Len(t, days, 7)
	assert.Len(t, days[Monday], 1)
	_, ok := days["Funday"]
	assert.False(t, ok)
}

func TestApplyDayOperation_InvalidOperation(t *testing.T) {
	t.Parallel()

	days := EmptyWeek[WorkoutItem]()
	_, err := ApplyDayOperation(days, Monday, DayOperation("merge"), []WorkoutItem{{Name: "Curl"}})
	assert.ErrorIs(t, err, ErrInvalidDayOperation)
}

func TestApplyDayOperation_CreatesMissingBucket(t *testing.T) {
	t.Parallel()

	// A sparse map, as a legacy document might have.
	days := map[Weekday][]WorkoutItem{Monday: {{Name: "Squat"}}}

	days, err := ApplyDayOperation(days, Saturday, OpPush, []WorkoutItem{{Name: "Hike"}})
	require.NoError(t, err)
	require.Len(t, days[Saturday], 1)
	assert.Equal(t, "Hike", days[Saturday][0].Name)
	assert.Len(t, days[Monday], 1)
}

func TestItemKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Squat", WorkoutItem{Name: "Squat", Sets: 3}.ItemKey())
	assert.Equal(t, "Lunch", Meal{Name: "Lunch"}.ItemKey())
}
