package month

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func TestAdd_TableTests(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		n    int
		want time.Time
	}{
		{name: "plain month", from: date(2024, 1, 15), n: 1, want: date(2024, 2, 15)},
		{name: "end of january clamps to leap february", from: date(2024, 1, 31), n: 1, want: date(2024, 2, 29)},
		{name: "end of january clamps to february", from: date(2025, 1, 31), n: 1, want: date(2025, 2, 28)},
		{name: "crosses year", from: date(2024, 11, 30), n: 3, want: date(2025, 2, 28)},
		{name: "twelve months", from: date(2024, 2, 29), n: 12, want: date(2025, 2, 28)},
		{name: "zero months", from: date(2024, 5, 5), n: 0, want: date(2024, 5, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Add(tt.from, tt.n))
		})
	}
}

func TestNextDue(t *testing.T) {
	paidAt := date(2024, 3, 10)

	future := date(2024, 3, 20)
	assert.Equal(t, date(2024, 4, 20), NextDue(&future, paidAt, 1), "extends from a due date still ahead")

	past := date(2024, 2, 1)
	assert.Equal(t, date(2024, 6, 10), NextDue(&past, paidAt, 3), "lapsed membership restarts at payment time")

	assert.Equal(t, date(2024, 4, 10), NextDue(nil, paidAt, 1), "first payment")
}
