package interval

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func iv(start, end string) Interval {
	return MustNew(at(start), at(end), "")
}

func day(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNew_StartAfterEnd(t *testing.T) {
	_, err := New(at("2024-01-01T10:00:00Z"), at("2024-01-01T09:00:00Z"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInterval))
}

func TestNew_ZeroLengthIsValid(t *testing.T) {
	got, err := New(at("2024-01-01T10:00:00Z"), at("2024-01-01T10:00:00Z"), "x")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
	assert.Equal(t, time.Duration(0), got.Duration())
	assert.Equal(t, "x", got.Tag())
}

func TestParse(t *testing.T) {
	got, err := Parse("2024-01-01T09:00:00+07:00", "2024-01-01T10:30:00.5+07:00", "room-a")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute+500*time.Millisecond, got.Duration())
	assert.Equal(t, "room-a", got.Tag())

	_, err = Parse("2024-01-01 09:00", "2024-01-01T10:00:00Z", "")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = Parse("2024-01-01T09:00:00Z", "nope", "")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = Parse("2024-01-01T11:00:00Z", "2024-01-01T10:00:00Z", "")
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{
			name: "touching intervals do not overlap",
			a:    iv("2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z"),
			b:    iv("2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"),
			want: false,
		},
		{
			name: "partial overlap",
			a:    iv("2024-01-01T09:00:00Z", "2024-01-01T10:30:00Z"),
			b:    iv("2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"),
			want: true,
		},
		{
			name: "containment",
			a:    iv("2024-01-01T08:00:00Z", "2024-01-01T12:00:00Z"),
			b:    iv("2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z"),
			want: true,
		},
		{
			name: "disjoint",
			a:    iv("2024-01-01T08:00:00Z", "2024-01-01T09:00:00Z"),
			b:    iv("2024-01-01T13:00:00Z", "2024-01-01T14:00:00Z"),
			want: false,
		},
		{
			name: "zero-length inside another span",
			a:    iv("2024-01-01T08:00:00Z", "2024-01-01T12:00:00Z"),
			b:    iv("2024-01-01T10:00:00Z", "2024-01-01T10:00:00Z"),
			want: false,
		},
		{
			name: "different zones same instants",
			a:    iv("2024-01-01T09:00:00+07:00", "2024-01-01T10:00:00+07:00"),
			b:    iv("2024-01-01T02:30:00Z", "2024-01-01T04:00:00Z"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a))
		})
	}
}

func TestOverlaps_Reflexive(t *testing.T) {
	a := iv("2024-01-01T09:00:00Z", "2024-01-01T09:00:01Z")
	assert.True(t, Overlaps(a, a))

	empty := iv("2024-01-01T09:00:00Z", "2024-01-01T09:00:00Z")
	assert.False(t, Overlaps(empty, empty))
}

func TestBucketByDay_SingleDay(t *testing.T) {
	a := iv("2024-03-05T09:15:00Z", "2024-03-05T17:45:00Z")

	got := BucketByDay(a, time.UTC)

	require.Len(t, got, 1)
	assert.Equal(t, day("2024-03-05"), got[0].Day)
	assert.Equal(t, a.Duration(), got[0].Duration)
}

func TestBucketByDay_CrossesMidnight(t *testing.T) {
	got := BucketByDay(iv("2024-01-01T23:00:00Z", "2024-01-02T01:00:00Z"), time.UTC)

	require.Len(t, got, 2)
	assert.Equal(t, DayBucket{Day: day("2024-01-01"), Duration: time.Hour}, got[0])
	assert.Equal(t, DayBucket{Day: day("2024-01-02"), Duration: time.Hour}, got[1])
}

func TestBucketByDay_MultipleDays(t *testing.T) {
	got := BucketByDay(iv("2024-02-28T20:00:00Z", "2024-03-01T06:00:00Z"), time.UTC)

	require.Len(t, got, 3)
	assert.Equal(t, day("2024-02-28"), got[0].Day)
	assert.Equal(t, 4*time.Hour, got[0].Duration)
	assert.Equal(t, day("2024-02-29"), got[1].Day)
	assert.Equal(t, 24*time.Hour, got[1].Duration)
	assert.Equal(t, day("2024-03-01"), got[2].Day)
	assert.Equal(t, 6*time.Hour, got[2].Duration)
}

func TestBucketByDay_EndsAtMidnight(t *testing.T) {
	got := BucketByDay(iv("2024-01-01T22:00:00Z", "2024-01-02T00:00:00Z"), time.UTC)

	require.Len(t, got, 1)
	assert.Equal(t, day("2024-01-01"), got[0].Day)
	assert.Equal(t, 2*time.Hour, got[0].Duration)
}

func TestBucketByDay_ZeroLength(t *testing.T) {
	got := BucketByDay(iv("2024-01-02T00:00:00Z", "2024-01-02T00:00:00Z"), time.UTC)

	require.Len(t, got, 1)
	assert.Equal(t, day("2024-01-02"), got[0].Day)
	assert.Equal(t, time.Duration(0), got[0].Duration)
}

func TestBucketByDay_UsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	// 16:00Z-18:00Z is 23:00-01:00 in UTC+7.
	a := iv("2024-01-01T16:00:00Z", "2024-01-01T18:00:00Z")

	assert.Len(t, BucketByDay(a, time.UTC), 1)

	got := BucketByDay(a, jakarta)
	require.Len(t, got, 2)
	assert.Equal(t, day("2024-01-01"), got[0].Day)
	assert.Equal(t, time.Hour, got[0].Duration)
	assert.Equal(t, day("2024-01-02"), got[1].Day)
	assert.Equal(t, time.Hour, got[1].Duration)
}

func TestBucketByDay_DSTDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	start := time.Date(2024, time.March, 10, 0, 0, 0, 0, ny)
	end := time.Date(2024, time.March, 11, 0, 0, 0, 0, ny)

	got := BucketByDay(MustNew(start, end, ""), ny)

	require.Len(t, got, 1)
	assert.Equal(t, 23*time.Hour, got[0].Duration)
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil, time.UTC)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregate_SumsPerDay(t *testing.T) {
	ivs := []Interval{
		iv("2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z"),
		iv("2024-01-01T23:00:00Z", "2024-01-02T02:00:00Z"),
		iv("2024-01-02T10:00:00Z", "2024-01-02T10:00:00Z"),
		iv("2024-01-04T08:00:00Z", "2024-01-04T08:30:00Z"),
	}

	got := Aggregate(ivs, time.UTC)

	assert.Equal(t, map[Date]time.Duration{
		day("2024-01-01"): 2 * time.Hour,
		day("2024-01-02"): 2 * time.Hour,
		day("2024-01-04"): 30 * time.Minute,
	}, got)
}

func TestAggregateInto_KeepsSeededZeros(t *testing.T) {
	seed := ZeroRange(day("2024-01-01"), day("2024-01-03"))

	AggregateInto(seed, []Interval{iv("2024-01-02T09:00:00Z", "2024-01-02T12:00:00Z")}, time.UTC)

	assert.Equal(t, map[Date]time.Duration{
		day("2024-01-01"): 0,
		day("2024-01-02"): 3 * time.Hour,
		day("2024-01-03"): 0,
	}, seed)
}

func TestAggregateRange_ClipsToRange(t *testing.T) {
	ivs := []Interval{
		iv("2023-12-31T22:00:00Z", "2024-01-01T03:00:00Z"),
		iv("2024-01-02T21:00:00Z", "2024-01-03T01:00:00Z"),
	}

	got := AggregateRange(ivs, day("2024-01-01"), day("2024-01-02"), time.UTC)

	assert.Equal(t, map[Date]time.Duration{
		day("2024-01-01"): 3 * time.Hour,
		day("2024-01-02"): 3 * time.Hour,
	}, got)
}

func TestZeroRange_Inverted(t *testing.T) {
	assert.Empty(t, ZeroRange(day("2024-01-05"), day("2024-01-01")))
}

func TestBucketsAndTotal(t *testing.T) {
	m := map[Date]time.Duration{
		day("2024-01-03"): time.Hour,
		day("2023-12-31"): 2 * time.Hour,
		day("2024-01-01"): 0,
	}

	got := Buckets(m)

	require.Len(t, got, 3)
	assert.Equal(t, day("2023-12-31"), got[0].Day)
	assert.Equal(t, day("2024-01-01"), got[1].Day)
	assert.Equal(t, day("2024-01-03"), got[2].Day)
	assert.Equal(t, 3*time.Hour, Total(m))
}

func TestConflicts(t *testing.T) {
	a := iv("2024-01-01T09:00:00Z", "2024-01-01T11:00:00Z").WithTag("a")
	b := iv("2024-01-01T10:00:00Z", "2024-01-01T12:00:00Z").WithTag("b")
	c := iv("2024-01-01T11:00:00Z", "2024-01-01T13:00:00Z").WithTag("c")
	d := iv("2024-01-01T14:00:00Z", "2024-01-01T15:00:00Z").WithTag("d")

	got := Conflicts([]Interval{d, c, b, a})

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].First.Tag())
	assert.Equal(t, "b", got[0].Second.Tag())
	assert.Equal(t, "b", got[1].First.Tag())
	assert.Equal(t, "c", got[1].Second.Tag())
}

func TestConflicts_None(t *testing.T) {
	assert.Empty(t, Conflicts(nil))
	assert.Empty(t, Conflicts([]Interval{
		iv("2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z"),
		iv("2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"),
	}))
}

func TestConflicts_ZeroLengthInsideSpan(t *testing.T) {
	long := iv("2024-01-01T08:00:00Z", "2024-01-01T12:00:00Z").WithTag("long")
	point := iv("2024-01-01T10:00:00Z", "2024-01-01T10:00:00Z").WithTag("point")
	other := iv("2024-01-01T11:00:00Z", "2024-01-01T13:00:00Z").WithTag("other")

	got := Conflicts([]Interval{point, other, long})

	require.Len(t, got, 1)
	assert.Equal(t, "long", got[0].First.Tag())
	assert.Equal(t, "other", got[0].Second.Tag())

	_, ok := FirstConflict(point, []Interval{long})
	assert.False(t, ok)
	assert.True(t, Overlaps(long, long))
}

func TestFirstConflict(t *testing.T) {
	existing := []Interval{
		iv("2024-01-01T13:00:00Z", "2024-01-01T14:00:00Z").WithTag("late"),
		iv("2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z").WithTag("early"),
	}

	got, ok := FirstConflict(iv("2024-01-01T09:30:00Z", "2024-01-01T13:30:00Z"), existing)
	require.True(t, ok)
	assert.Equal(t, "early", got.Tag())

	_, ok = FirstConflict(iv("2024-01-01T10:00:00Z", "2024-01-01T13:00:00Z"), existing)
	assert.False(t, ok)
}

func TestGroupByTag(t *testing.T) {
	ivs := []Interval{
		iv("2024-01-01T12:00:00Z", "2024-01-01T13:00:00Z").WithTag("room-1"),
		iv("2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z").WithTag("room-2"),
		iv("2024-01-01T08:00:00Z", "2024-01-01T09:00:00Z").WithTag("room-1"),
	}

	got := GroupByTag(ivs)

	require.Len(t, got, 2)
	require.Len(t, got["room-1"], 2)
	assert.True(t, got["room-1"][0].Start().Before(got["room-1"][1].Start()))
	assert.Len(t, got["room-2"], 1)
}

func TestSortByStart_DoesNotMutateInput(t *testing.T) {
	late := iv("2024-01-01T12:00:00Z", "2024-01-01T13:00:00Z")
	early := iv("2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z")
	in := []Interval{late, early}

	out := SortByStart(in)

	assert.Equal(t, []Interval{early, late}, out)
	assert.Equal(t, []Interval{late, early}, in)
}

func TestDate(t *testing.T) {
	d := day("2024-02-28")
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, "2024-02-27", d.AddDays(-1).String())
	assert.Equal(t, 2, d.DaysUntil(day("2024-03-01")))
	assert.True(t, d.Before(day("2024-03-01")))
	assert.True(t, day("2025-01-01").After(d))

	var parsed Date
	require.NoError(t, parsed.UnmarshalText([]byte("2024-12-31")))
	text, err := parsed.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", string(text))

	_, err = ParseDate("2024-13-01")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

// Seeded property checks over random intervals spanning up to a few days.
func TestProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := at("2024-01-01T00:00:00Z")

	randomInterval := func() Interval {
		start := base.Add(time.Duration(rng.Intn(10*24*60)) * time.Minute)
		end := start.Add(time.Duration(rng.Intn(3*24*60)) * time.Minute)
		return MustNew(start, end, "")
	}

	for trial := 0; trial < 300; trial++ {
		a, b := randomInterval(), randomInterval()

		assert.Equal(t, Overlaps(a, b), Overlaps(b, a), "trial %d: symmetry", trial)
		if !a.IsEmpty() {
			assert.True(t, Overlaps(a, a), "trial %d: non-empty interval overlaps itself", trial)
		}

		var sum time.Duration
		buckets := BucketByDay(a, time.UTC)
		for i, bucket := range buckets {
			assert.GreaterOrEqual(t, bucket.Duration, time.Duration(0))
			assert.LessOrEqual(t, bucket.Duration, 24*time.Hour)
			if i > 0 {
				assert.True(t, buckets[i-1].Day.Before(bucket.Day), "trial %d: ascending days", trial)
			}
			sum += bucket.Duration
		}
		assert.Equal(t, a.Duration(), sum, "trial %d: bucket sum equals duration", trial)
	}

	ivs := make([]Interval, 50)
	var raw time.Duration
	for i := range ivs {
		ivs[i] = randomInterval()
		raw += ivs[i].Duration()
	}
	assert.Equal(t, raw, Total(Aggregate(ivs, time.UTC)))
}
