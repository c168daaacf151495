// Package month содержит календарную арифметику для сроков абонементов.
package month

import "time"

// Add прибавляет к t n месяцев. Если в целевом месяце нет такого дня
// (31 января + 1 месяц), берётся последний день месяца, а не перенос в следующий.
func Add(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := daysIn(first.Year(), first.Month(), t.Location())
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// NextDue вычисляет новую дату оплаты после платежа за months месяцев.
// Если текущий срок ещё не наступил, продление идёт от него, иначе от даты платежа.
func NextDue(current *time.Time, paidAt time.Time, months int) time.Time {
	from := paidAt
	if current != nil && current.After(paidAt) {
		from = *current
	}
	return Add(from, months)
}

func daysIn(y int, m time.Month, loc *time.Location) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, loc).Day()
}
