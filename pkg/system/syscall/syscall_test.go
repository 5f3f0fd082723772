package syscall

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testClock struct {
	date Date
	tod  TimeOfDay
}

func (c *testClock) SetDate(d Date)      { c.date = d }
func (c *testClock) SetTime(t TimeOfDay) { c.tod = t }

func TestParse(t *testing.T) {
	testCases := []struct {
		in     string
		expect Syscall
		err    error
	}{
		{in: "T00:00:00", expect: Syscall{Kind: KindTime}},
		{in: "T12:21:11", expect: Syscall{Kind: KindTime, Time: TimeOfDay{12, 21, 11}}},
		{in: "D0/12/02/2019", expect: Syscall{Kind: KindDate, Date: Date{Year: 2019, Month: time.February, Day: 12}}},
		{in: "D1/01/04/2019", expect: Syscall{Kind: KindDate, Date: Date{Year: 2019, Month: time.April, Day: 1, Weekday: 1}}},
		{in: "", err: ErrParse},
		{in: "X12", err: ErrUnknownSyscall},
		{in: "T12:21", err: ErrParse},
		{in: "T24:00:00", err: ErrParse},
		{in: "Taa:00:00", err: ErrParse},
		{in: "D0/30/02/2019", err: ErrParse},
		{in: "D0/12/13/2019", err: ErrParse},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			sc, err := Parse(tc.in)
			if tc.err != nil {
				require.True(t, errors.Is(err, tc.err), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expect, sc)
		})
	}
}

func TestExecute(t *testing.T) {
	clock := &testClock{}
	sc, err := Parse("T01:02:03")
	require.NoError(t, err)
	require.NoError(t, sc.Execute(clock))
	require.Equal(t, TimeOfDay{1, 2, 3}, clock.tod)

	sc, err = Parse("D3/31/12/2020")
	require.NoError(t, err)
	require.NoError(t, sc.Execute(clock))
	require.Equal(t, Date{Year: 2020, Month: time.December, Day: 31, Weekday: 3}, clock.date)

	require.Equal(t, ErrUnknownSyscall, Syscall{Kind: 'Q'}.Execute(clock))
}
