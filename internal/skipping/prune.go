package skipping

import (
	"strconv"
	"strings"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/deltalog"
)

const numericTolerance = 1e-4

// Prune returns the subset of files that cannot be proven to miss every
// predicate. A file is dropped iff some predicate proves no row in it can
// match; when information is missing, the file is kept (conservative).
func Prune(files []deltalog.FileEntry, predicates []Predicate, partitionColumns []string) []deltalog.FileEntry {
	if len(predicates) == 0 {
		return files
	}
	partitionSet := make(map[string]bool, len(partitionColumns))
	for _, c := range partitionColumns {
		partitionSet[c] = true
	}

	kept := make([]deltalog.FileEntry, 0, len(files))
	for _, f := range files {
		if !isDropped(f, predicates, partitionSet) {
			kept = append(kept, f)
		}
	}
	return kept
}

func isDropped(f deltalog.FileEntry, predicates []Predicate, partitionSet map[string]bool) bool {
	for _, p := range predicates {
		if partitionSet[p.Column] {
			if dropByPartition(f, p) {
				return true
			}
			continue
		}
		if dropByStats(f, p) {
			return true
		}
	}
	return false
}

func dropByPartition(f deltalog.FileEntry, p Predicate) bool {
	actual, ok := f.PartitionValues[p.Column]
	if !ok {
		return false
	}
	switch p.Op {
	case OpEq:
		return !valueEquals(actual, p.Value)
	case OpNeq:
		return valueEquals(actual, p.Value)
	case OpIn:
		return !valueInList(actual, p.Values)
	case OpNotIn:
		return valueInList(actual, p.Values)
	default:
		// >, >=, <, <= on a partition column: compare using the same
		// numeric-or-lexicographic semantics used for min/max pruning.
		return comparePartitionRange(actual, p)
	}
}

func comparePartitionRange(actual string, p Predicate) bool {
	cmp, ok := compareValues(actual, p.Value)
	if !ok {
		return false
	}
	switch p.Op {
	case OpGt:
		return cmp <= 0
	case OpGte:
		return cmp < 0
	case OpLt:
		return cmp >= 0
	case OpLte:
		return cmp > 0
	}
	return false
}

func dropByStats(f deltalog.FileEntry, p Predicate) bool {
	if f.Stats == nil {
		return false
	}
	min, hasMin := f.Stats.MinValues[p.Column]
	max, hasMax := f.Stats.MaxValues[p.Column]
	if !hasMin || !hasMax {
		return false
	}

	switch p.Op {
	case OpEq:
		return ltTolerant(p.Value, min) || gtTolerant(p.Value, max)
	case OpGt:
		return lteTolerant(max, p.Value)
	case OpGte:
		return ltTolerant(max, p.Value)
	case OpLt:
		return gteTolerant(min, p.Value)
	case OpLte:
		return gtTolerant(min, p.Value)
	default:
		// !=, IN, NOT IN: conservative, keep.
		return false
	}
}

// valueEquals compares a partition value (always a string on disk) against
// a parsed predicate value, using numeric comparison when both sides parse
// as numbers and lexicographic comparison otherwise.
func valueEquals(actual string, want interface{}) bool {
	cmp, ok := compareValues(actual, want)
	return ok && cmp == 0
}

func valueInList(actual string, values []interface{}) bool {
	for _, v := range values {
		if valueEquals(actual, v) {
			return true
		}
	}
	return false
}

// compareValues returns -1/0/1 comparing actual (string) to want (string or
// float64): numerically when both parse as numbers, lexicographically
// otherwise. ok is always true.
func compareValues(actual string, want interface{}) (int, bool) {
	wantStr, wantNum, isNum := toComparable(want)
	actualNum, err := strconv.ParseFloat(actual, 64)
	if isNum && err == nil {
		return compareFloat(actualNum, wantNum), true
	}
	return strings.Compare(actual, wantStr), true
}

func toComparable(v interface{}) (str string, num float64, isNum bool) {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), t, true
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return t, f, true
		}
		return t, 0, false
	default:
		return "", 0, false
	}
}

func compareFloat(a, b float64) int {
	d := a - b
	if d < -numericTolerance {
		return -1
	}
	if d > numericTolerance {
		return 1
	}
	return 0
}

// The stats min/max values come through as interface{} from parsed JSON
// (float64, string, bool, nil); the ltTolerant family handles the numeric
// cross-product against a predicate's parsed scalar.

func ltTolerant(a, b interface{}) bool  { c, ok := compareAny(a, b); return ok && c < 0 }
func gtTolerant(a, b interface{}) bool  { c, ok := compareAny(a, b); return ok && c > 0 }
func lteTolerant(a, b interface{}) bool { c, ok := compareAny(a, b); return ok && c <= 0 }
func gteTolerant(a, b interface{}) bool { c, ok := compareAny(a, b); return ok && c >= 0 }

func compareAny(a, b interface{}) (int, bool) {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return compareFloat(af, bf), true
	}
	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr && bIsStr {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

func asFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
