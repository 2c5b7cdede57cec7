package domain

// Чистые функции над упорядоченной последовательностью маркеров.
// Текущая позиция всегда вычисляется из последовательности, отдельного
// хранимого указателя нет — последовательность и указатель не могут разойтись.
// Все функции ожидают маркеры, отсортированные по SequenceIndex по возрастанию.

// CurrentPosition возвращает journey-маркер с наибольшим SequenceIndex.
// Второе значение false — у journey нет подтвержденной позиции
// (только plan-маркеры или маркеров нет вовсе).
func CurrentPosition(markers []Marker) (Marker, bool) {
	for i := len(markers) - 1; i >= 0; i-- {
		if markers[i].Kind == MarkerKindJourney {
			return markers[i], true
		}
	}
	return Marker{}, false
}

// NextPendingPlan возвращает первый plan-маркер после текущей позиции —
// тот, который операции insert/convert считают "ближайшим запланированным".
func NextPendingPlan(markers []Marker) (Marker, bool) {
	from := 0
	if cur, ok := CurrentPosition(markers); ok {
		from = cur.SequenceIndex + 1
	}
	for _, m := range markers {
		if m.SequenceIndex >= from && m.Kind == MarkerKindPlan {
			return m, true
		}
	}
	return Marker{}, false
}

// NextSequenceIndex возвращает индекс для append-операции
func NextSequenceIndex(markers []Marker) int {
	if len(markers) == 0 {
		return 0
	}
	return markers[len(markers)-1].SequenceIndex + 1
}

// ValidateContiguous проверяет инвариант 0..n-1 без пропусков и дубликатов
func ValidateContiguous(markers []Marker) error {
	for i, m := range markers {
		if m.SequenceIndex != i {
			return ErrSequenceConflict
		}
	}
	return nil
}
