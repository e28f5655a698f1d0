package csvio

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBlockedDates(t *testing.T) {
	in := "date,reason\n2024-11-01,Toussaint\n 2024-12-25 , Noël \n"

	got, err := LoadBlockedDates(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), got[0].Date)
	assert.Equal(t, "Toussaint", got[0].Reason)
	assert.Equal(t, "Noël", got[1].Reason)

	_, err = LoadBlockedDates(strings.NewReader("date,reason\n2024-13-01,x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadEvents(t *testing.T) {
	in := "name,date,start,end\nForum,2024-10-03,10:00,12:30\nOpen day,2024-10-05,08:10,09:00\n"

	got, err := LoadEvents(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Forum", got[0].Name)
	assert.Equal(t, 10.0, got[0].StartHour)
	assert.Equal(t, 12.5, got[0].EndHour)
	assert.Equal(t, 8.25, got[1].StartHour)

	_, err = LoadEvents(strings.NewReader("name,date,start,end\nForum,2024-10-03,10h,12:30\n"))
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "08:00", want: 8},
		{in: "13:45", want: 13.75},
		{in: "9:20", want: 9.25},
		{in: "24:00", want: 24},
		{in: "24:30", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "-1:00", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
