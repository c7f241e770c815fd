package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Weekday is the closed set of bucket keys in a weekly schedule. The seven
// canonical English names are used as document keys regardless of UI locale.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays returns the seven canonical weekdays in order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// ErrInvalidWeekday is returned when a day-scoped operation names a day
// outside the canonical seven.
var ErrInvalidWeekday = errors.New("invalid weekday")

// ErrInvalidDayOperation is returned for an unknown day-scoped operation.
var ErrInvalidDayOperation = errors.New("invalid day operation")

// ParseWeekday validates s against the canonical weekday names.
func ParseWeekday(s string) (Weekday, error) {
	for _, d := range Weekdays() {
		if string(d) == s {
			return d, nil
		}
	}
	return "", ErrInvalidWeekday
}

// DayOperation is a mutation scoped to a single weekday bucket.
type DayOperation string

const (
	// OpPush appends items to the end of the bucket, duplicates allowed.
	OpPush DayOperation = "push"
	// OpPull removes every item whose key matches a key of the given items.
	OpPull DayOperation = "pull"
	// OpReplace discards the bucket and substitutes the given items verbatim.
	OpReplace DayOperation = "replace"
)

// ParseDayOperation validates s against the known day operations.
func ParseDayOperation(s string) (DayOperation, error) {
	switch DayOperation(s) {
	case OpPush, OpPull, OpReplace:
		return DayOperation(s), nil
	}
	return "", ErrInvalidDayOperation
}

// ScheduleItem is implemented by both schedule item kinds. ItemKey returns
// the identifying key used by pull matching.
type ScheduleItem interface {
	ItemKey() string
}

// WorkoutItem is a single exercise entry inside a weekday bucket of a
// workout schedule.
type WorkoutItem struct {
	Name         string   `bson:"name" json:"name"`
	Sets         int      `bson:"sets" json:"sets"`
	Reps         int      `bson:"reps" json:"reps"`
	TargetWeight string   `bson:"targetWeight,omitempty" json:"targetWeight,omitempty"` // free text, e.g. "60kg" or "RPE 8"
	Comment      string   `bson:"comment,omitempty" json:"comment,omitempty"`
	VideoURL     string   `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	ImageKeys    []string `bson:"imageKeys,omitempty" json:"imageKeys,omitempty"` // object-storage keys

	// ImageURLs is populated on read with presigned URLs resolved from
	// ImageKeys; never persisted.
	ImageURLs []string `bson:"-" json:"imageUrls,omitempty"`
}

// ItemKey identifies a workout item by its exercise name.
func (w WorkoutItem) ItemKey() string { return w.Name }

// Food is one entry of a meal with its macros.
type Food struct {
	Name     string  `bson:"name" json:"name"`
	Quantity float64 `bson:"quantity" json:"quantity"`
	Unit     string  `bson:"unit" json:"unit"` // e.g. "g", "ml", "piece"
	Calories float64 `bson:"calories" json:"calories"`
	Protein  float64 `bson:"protein" json:"protein"`
	Carbs    float64 `bson:"carbs" json:"carbs"`
	Fats     float64 `bson:"fats" json:"fats"`
}

// Meal is a single meal entry inside a weekday bucket of a nutrition
// schedule.
type Meal struct {
	Name    string `bson:"name" json:"name"`
	Foods   []Food `bson:"foods" json:"foods"`
	Comment string `bson:"comment,omitempty" json:"comment,omitempty"`
}

// ItemKey identifies a meal by its name.
func (m Meal) ItemKey() string { return m.Name }

// WeeklySchedule is the shared weekly shape for both schedule domains: seven
// weekday buckets, each an ordered item list. Buckets are created lazily on
// first write and never implicitly deleted.
type WeeklySchedule[T ScheduleItem] struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID primitive.ObjectID `bson:"clientId" json:"clientId"`
	CoachID  primitive.ObjectID `bson:"coachId" json:"coachId"` // denormalized for authorization checks

	Days map[Weekday][]T `bson:"days" json:"days"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutSchedule and NutritionSchedule are the two concrete schedule kinds.
type (
	WorkoutSchedule   = WeeklySchedule[WorkoutItem]
	NutritionSchedule = WeeklySchedule[Meal]
)

// EmptyWeek returns a bucket map with all seven weekdays present and empty,
// the state a schedule is created in.
func EmptyWeek[T ScheduleItem]() map[Weekday][]T {
	days := make(map[Weekday][]T, 7)
	for _, d := range Weekdays() {
		days[d] = []T{}
	}
	return days
}

// ApplyDayOperation applies op to the day bucket of days, returning the
// updated map. A missing bucket is created empty first. The returned map is
// the same map passed in, mutated in place.
func ApplyDayOperation[T ScheduleItem](days map[Weekday][]T, day Weekday, op DayOperation, items []T) (map[Weekday][]T, error) {
	if _, err := ParseWeekday(string(day)); err != nil {
		return days, err
	}
	if days == nil {
		days = make(map[Weekday][]T, 7)
	}
	bucket, ok := days[day]
	if !ok {
		bucket = []T{}
	}

	switch op {
	case OpPush:
		bucket = append(bucket, items...)
	case OpPull:
		keys := make(map[string]struct{}, len(items))
		for _, it := range items {
			keys[it.ItemKey()] = struct{}{}
		}
		kept := bucket[:0]
		for _, existing := range bucket {
			if _, match := keys[existing.ItemKey()]; !match {
				kept = append(kept, existing)
			}
		}
		bucket = kept
	case OpReplace:
		bucket = append([]T{}, items...)
	default:
		return days, ErrInvalidDayOperation
	}

	days[day] = bucket
	return days, nil
}
